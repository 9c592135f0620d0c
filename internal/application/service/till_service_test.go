package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tillpoint/billing-api/internal/infrastructure/repository"
	"github.com/tillpoint/billing-api/pkg/apperror"
	"gorm.io/gorm"
)

func newTillService(db *gorm.DB) *TillService {
	return NewTillService(repository.NewDenominationRepository(db))
}

func TestUpsertDenomination_Create(t *testing.T) {
	db := newTestDB(t)
	svc := newTillService(db)

	denom, err := svc.UpsertDenomination(context.Background(), &UpsertDenominationInput{
		Value: "500",
		Count: "12",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(500), denom.Value)
	assert.Equal(t, 12, denom.CountAvailable)
}

func TestUpsertDenomination_OverwritesCount(t *testing.T) {
	db := newTestDB(t)
	svc := newTillService(db)

	_, err := svc.UpsertDenomination(context.Background(), &UpsertDenominationInput{Value: "500", Count: "12"})
	require.NoError(t, err)

	denom, err := svc.UpsertDenomination(context.Background(), &UpsertDenominationInput{Value: "500", Count: "3"})
	require.NoError(t, err)
	assert.Equal(t, 3, denom.CountAvailable)

	denoms, err := svc.ListTill(context.Background())
	require.NoError(t, err)
	assert.Len(t, denoms, 1)
}

func TestUpsertDenomination_RejectsBadValues(t *testing.T) {
	db := newTestDB(t)
	svc := newTillService(db)

	for _, value := range []string{"", "zero", "0", "-5", "2.5"} {
		_, err := svc.UpsertDenomination(context.Background(), &UpsertDenominationInput{Value: value, Count: "1"})
		require.Error(t, err, "value %q should be rejected", value)
		assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
	}
}

func TestUpsertDenomination_CountDefaultsToZero(t *testing.T) {
	db := newTestDB(t)
	svc := newTillService(db)

	denom, err := svc.UpsertDenomination(context.Background(), &UpsertDenominationInput{Value: "20", Count: "many"})
	require.NoError(t, err)
	assert.Zero(t, denom.CountAvailable)

	denom, err = svc.UpsertDenomination(context.Background(), &UpsertDenominationInput{Value: "10", Count: "-4"})
	require.NoError(t, err)
	assert.Zero(t, denom.CountAvailable)
}

func TestListTill_DescendingByValue(t *testing.T) {
	db := newTestDB(t)
	seedDenominations(t, db, map[int64]int{10: 1, 500: 2, 50: 3})
	svc := newTillService(db)

	denoms, err := svc.ListTill(context.Background())
	require.NoError(t, err)
	require.Len(t, denoms, 3)

	assert.Equal(t, int64(500), denoms[0].Value)
	assert.Equal(t, int64(50), denoms[1].Value)
	assert.Equal(t, int64(10), denoms[2].Value)
}
