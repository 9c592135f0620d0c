package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/internal/infrastructure/repository"
	"github.com/tillpoint/billing-api/pkg/apperror"
	"github.com/tillpoint/billing-api/pkg/money"
	"gorm.io/gorm"
)

// recordingNotifier captures published purchase IDs for assertions
type recordingNotifier struct {
	published []uuid.UUID
}

func (n *recordingNotifier) PublishInvoice(_ context.Context, purchaseID uuid.UUID) error {
	n.published = append(n.published, purchaseID)
	return nil
}

func newBillingService(db *gorm.DB, notifier InvoiceNotifier) *BillingService {
	return NewBillingService(
		db,
		repository.NewDenominationRepository(db),
		repository.NewPurchaseRepository(db),
		notifier,
	)
}

func TestSettle_Success(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "5", 5)
	seedDenominations(t, db, map[int64]int{50: 5, 20: 5, 10: 5})

	notifier := &recordingNotifier{}
	svc := newBillingService(db, notifier)

	purchase, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "alice@example.com",
		PaidAmount:    "300",
		Lines:         []CartLineInput{{ProductCode: "SODA", Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, purchase)

	assert.Equal(t, "alice@example.com", purchase.CustomerEmail)
	assert.True(t, purchase.Subtotal.Equal(money.MustParse("200.00")), "subtotal: %s", purchase.Subtotal)
	assert.True(t, purchase.TaxTotal.Equal(money.MustParse("10.00")), "tax total: %s", purchase.TaxTotal)
	assert.True(t, purchase.Total.Equal(money.MustParse("210.00")), "total: %s", purchase.Total)
	assert.True(t, purchase.Balance.Equal(money.MustParse("90.00")), "balance: %s", purchase.Balance)

	require.Len(t, purchase.Items, 1)
	assert.Equal(t, 2, purchase.Items[0].Quantity)
	assert.True(t, purchase.Items[0].LineTotal.Equal(money.MustParse("210.00")))
	assert.Equal(t, "Soda Can", purchase.Items[0].Product.Name)

	// Change for 90 is greedy: one 50, two 20s
	changeByValue := map[int64]int{}
	for _, c := range purchase.Change {
		changeByValue[c.DenominationValue] = c.CountGiven
	}
	assert.Equal(t, map[int64]int{50: 1, 20: 2}, changeByValue)

	assert.Equal(t, 3, productStock(t, db, "SODA"))
	assert.Equal(t, 4, tillCount(t, db, 50))
	assert.Equal(t, 3, tillCount(t, db, 20))
	assert.Equal(t, 5, tillCount(t, db, 10))

	require.Len(t, notifier.published, 1)
	assert.Equal(t, purchase.ID, notifier.published[0])
}

func TestSettle_ExactPayment_NoChange(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "5", 5)
	seedDenominations(t, db, map[int64]int{50: 5})

	svc := newBillingService(db, nil)

	purchase, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "bob@example.com",
		PaidAmount:    "210.00",
		Lines:         []CartLineInput{{ProductCode: "SODA", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, purchase.Balance.IsZero(), "balance: %s", purchase.Balance)
	assert.Empty(t, purchase.Change)
	assert.Equal(t, 5, tillCount(t, db, 50))
}

func TestSettle_LineTotalsRoundBeforeSummation(t *testing.T) {
	db := newTestDB(t)
	// Each line comes to 1.025 and rounds half-up to 1.03, so the grand total
	// is 2.06 while round(subtotal)+round(taxTotal) would give 2.05.
	seedProduct(t, db, "A", "Item A", "1.00", "2.5", 10)
	seedProduct(t, db, "B", "Item B", "1.00", "2.5", 10)

	svc := newBillingService(db, nil)

	purchase, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "carol@example.com",
		PaidAmount:    "2.06",
		Lines: []CartLineInput{
			{ProductCode: "A", Quantity: 1},
			{ProductCode: "B", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, purchase.Total.Equal(money.MustParse("2.06")), "total: %s", purchase.Total)
	assert.True(t, purchase.Subtotal.Equal(money.MustParse("2.00")), "subtotal: %s", purchase.Subtotal)
	assert.True(t, purchase.TaxTotal.Equal(money.MustParse("0.05")), "tax total: %s", purchase.TaxTotal)
	assert.True(t, purchase.Balance.IsZero())
}

func TestSettle_InsufficientPayment(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "5", 5)

	svc := newBillingService(db, nil)

	_, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "dave@example.com",
		PaidAmount:    "200",
		Lines:         []CartLineInput{{ProductCode: "SODA", Quantity: 2}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	// Nothing persisted
	var count int64
	db.Model(&entity.Purchase{}).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, 5, productStock(t, db, "SODA"))
}

func TestSettle_UnparseablePaidAmountCountsAsZero(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "5", 5)

	svc := newBillingService(db, nil)

	_, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "eve@example.com",
		PaidAmount:    "lots",
		Lines:         []CartLineInput{{ProductCode: "SODA", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestSettle_InsufficientChangeRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "5", 5)
	seedDenominations(t, db, map[int64]int{20: 1})

	svc := newBillingService(db, nil)

	// Change owed is 90; the till can only cover 20 of it
	_, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "frank@example.com",
		PaidAmount:    "300",
		Lines:         []CartLineInput{{ProductCode: "SODA", Quantity: 2}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	var purchases int64
	db.Model(&entity.Purchase{}).Count(&purchases)
	assert.Zero(t, purchases)

	var items int64
	db.Model(&entity.PurchaseItem{}).Count(&items)
	assert.Zero(t, items)

	assert.Equal(t, 5, productStock(t, db, "SODA"))
	assert.Equal(t, 1, tillCount(t, db, 20))
}

func TestSettle_TillRecountSurvivesFailedSettlement(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "5", 5)
	seedDenominations(t, db, map[int64]int{20: 1})

	svc := newBillingService(db, nil)

	// The recount raises the 20s to 4, which still cannot cover change of 90.
	// The settlement fails but the recount is a statement about the physical
	// drawer and stays applied.
	_, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "grace@example.com",
		PaidAmount:    "300",
		Lines:         []CartLineInput{{ProductCode: "SODA", Quantity: 2}},
		TillCounts:    map[int64]int{20: 4},
	})
	require.Error(t, err)

	assert.Equal(t, 4, tillCount(t, db, 20))
	assert.Equal(t, 5, productStock(t, db, "SODA"))
}

func TestSettle_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "5", 5)

	svc := newBillingService(db, nil)

	// Blank codes and non-positive quantities are skipped, leaving nothing
	_, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "harry@example.com",
		PaidAmount:    "100",
		Lines: []CartLineInput{
			{ProductCode: "", Quantity: 3},
			{ProductCode: "SODA", Quantity: 0},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.ErrEmptyCart.Message, apperror.GetAppError(err).Message)

	_, err = svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "harry@example.com",
		PaidAmount:    "100",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.ErrEmptyCart.Message, apperror.GetAppError(err).Message)
}

func TestSettle_UnknownProduct(t *testing.T) {
	db := newTestDB(t)

	svc := newBillingService(db, nil)

	_, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "ivy@example.com",
		PaidAmount:    "100",
		Lines:         []CartLineInput{{ProductCode: "NOPE", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestSettle_InsufficientStock(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "SODA", "Soda Can", "100.00", "5", 1)

	svc := newBillingService(db, nil)

	_, err := svc.Settle(context.Background(), &SettleInput{
		CustomerEmail: "jack@example.com",
		PaidAmount:    "500",
		Lines:         []CartLineInput{{ProductCode: "SODA", Quantity: 2}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
	assert.Equal(t, 1, productStock(t, db, "SODA"))
}

func TestSettle_MissingEmail(t *testing.T) {
	db := newTestDB(t)

	svc := newBillingService(db, nil)

	_, err := svc.Settle(context.Background(), &SettleInput{
		PaidAmount: "100",
		Lines:      []CartLineInput{{ProductCode: "SODA", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestMakeChange_GreedyDescending(t *testing.T) {
	denoms := []entity.Denomination{
		{Value: 50, CountAvailable: 5},
		{Value: 20, CountAvailable: 5},
		{Value: 10, CountAvailable: 5},
	}

	allocations, remaining := makeChange(90, denoms)
	require.Zero(t, remaining)
	require.Len(t, allocations, 2)
	assert.Equal(t, int64(50), allocations[0].denomination.Value)
	assert.Equal(t, 1, allocations[0].count)
	assert.Equal(t, int64(20), allocations[1].denomination.Value)
	assert.Equal(t, 2, allocations[1].count)
}

func TestMakeChange_LimitedByCount(t *testing.T) {
	denoms := []entity.Denomination{
		{Value: 50, CountAvailable: 1},
		{Value: 10, CountAvailable: 10},
	}

	allocations, remaining := makeChange(90, denoms)
	require.Zero(t, remaining)
	require.Len(t, allocations, 2)
	assert.Equal(t, 1, allocations[0].count)
	assert.Equal(t, 4, allocations[1].count)
}

func TestMakeChange_ShortTill(t *testing.T) {
	denoms := []entity.Denomination{
		{Value: 20, CountAvailable: 1},
	}

	_, remaining := makeChange(90, denoms)
	assert.Equal(t, int64(70), remaining)
}

func TestMakeChange_GreedyIsNotComplete(t *testing.T) {
	// 6 = 3+3 is payable, but greedy takes the 4 first and gets stuck. The
	// algorithm deliberately fails here rather than searching.
	denoms := []entity.Denomination{
		{Value: 4, CountAvailable: 10},
		{Value: 3, CountAvailable: 10},
	}

	_, remaining := makeChange(6, denoms)
	assert.Equal(t, int64(2), remaining)
}

func TestMakeChange_SkipsEmptyDenominations(t *testing.T) {
	denoms := []entity.Denomination{
		{Value: 50, CountAvailable: 0},
		{Value: 10, CountAvailable: 10},
	}

	allocations, remaining := makeChange(50, denoms)
	require.Zero(t, remaining)
	require.Len(t, allocations, 1)
	assert.Equal(t, int64(10), allocations[0].denomination.Value)
	assert.Equal(t, 5, allocations[0].count)
}

func TestMakeChange_ZeroAmount(t *testing.T) {
	denoms := []entity.Denomination{
		{Value: 10, CountAvailable: 10},
	}

	allocations, remaining := makeChange(0, denoms)
	assert.Zero(t, remaining)
	assert.Empty(t, allocations)
}
