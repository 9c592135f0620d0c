package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound_HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"2.675", "2.68"},
		{"0.33333", "0.33"},
		{"10", "10"},
	}

	for _, tc := range cases {
		got := Round(decimal.RequireFromString(tc.in))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "Round(%s) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestWholeUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"90.00", 90},
		{"90.49", 90},
		{"90.50", 91},
		{"0.49", 0},
		{"0", 0},
	}

	for _, tc := range cases {
		got := WholeUnits(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got, "WholeUnits(%s)", tc.in)
	}
}

func TestParse_PermissiveDefaultsToZero(t *testing.T) {
	assert.True(t, Parse("12.505").Equal(decimal.RequireFromString("12.51")))
	assert.True(t, Parse("100").Equal(decimal.RequireFromString("100")))
	assert.True(t, Parse("").IsZero())
	assert.True(t, Parse("abc").IsZero())
	assert.True(t, Parse("12,50").IsZero())
}
