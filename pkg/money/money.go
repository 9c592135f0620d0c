package money

import "github.com/shopspring/decimal"

// Money values are carried as shopspring decimals and rounded half-up to two
// decimal places only at the points the billing rules call for. Rounding
// anywhere else skews the accumulated totals.

// Round rounds an amount half-up to two decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WholeUnits rounds an amount half-up to the nearest whole currency unit and
// returns it as an integer. Fractional change below one unit is dropped here;
// the till only deals in whole denominations.
func WholeUnits(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// Parse converts a loosely typed amount string into a rounded decimal.
// Unparseable input defaults to zero rather than failing, matching the
// permissive form handling of the billing front end.
func Parse(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return Round(d)
}

// MustParse is a test and seed helper for literals known to be valid.
func MustParse(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}
