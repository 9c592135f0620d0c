package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/internal/domain/repository"
	"github.com/tillpoint/billing-api/pkg/apperror"
	"github.com/tillpoint/billing-api/pkg/money"
	"gorm.io/gorm"
)

// InvoiceNotifier publishes a settled purchase for asynchronous invoice
// delivery. Publishing happens after commit and its failure never affects
// the settlement outcome.
type InvoiceNotifier interface {
	PublishInvoice(ctx context.Context, purchaseID uuid.UUID) error
}

// BillingService runs purchase settlement: it validates the cart, computes
// totals, persists the purchase and decrements stock and till counts inside
// one transaction. It holds the gorm handle directly because the whole
// settlement is a single atomic unit spanning products, purchases and the
// till; everything outside that unit goes through repositories.
type BillingService struct {
	db           *gorm.DB
	denomRepo    repository.DenominationRepository
	purchaseRepo repository.PurchaseRepository
	notifier     InvoiceNotifier
}

// NewBillingService creates a new billing service. notifier may be nil, in
// which case no invoice e-mails are dispatched.
func NewBillingService(
	db *gorm.DB,
	denomRepo repository.DenominationRepository,
	purchaseRepo repository.PurchaseRepository,
	notifier InvoiceNotifier,
) *BillingService {
	return &BillingService{
		db:           db,
		denomRepo:    denomRepo,
		purchaseRepo: purchaseRepo,
		notifier:     notifier,
	}
}

// CartLineInput is one product/quantity pairing from the checkout form.
// Lines with a blank code or non-positive quantity are skipped.
type CartLineInput struct {
	ProductCode string
	Quantity    int
}

// SettleInput carries the raw checkout submission. PaidAmount arrives as a
// string and parses permissively (unparseable input counts as zero, which
// then fails the payment check). TillCounts is an optional manual recount of
// denomination availability, applied before settlement.
type SettleInput struct {
	CustomerEmail string
	PaidAmount    string
	Lines         []CartLineInput
	TillCounts    map[int64]int
}

// Settle finalizes a purchase. On success the purchase, its items and its
// change rows exist, stock and till counts are decremented, and an invoice
// notification has been queued. On any error nothing of the settlement
// persists.
//
// The one exception is TillCounts: a manual recount commits before the
// settlement transaction opens and therefore survives a failed settlement.
// The recount states what is physically in the drawer regardless of whether
// the sale goes through.
func (s *BillingService) Settle(ctx context.Context, input *SettleInput) (*entity.Purchase, error) {
	if input.CustomerEmail == "" {
		return nil, apperror.NewBadRequestError("Customer email is required")
	}

	if len(input.TillCounts) > 0 {
		counts := make(map[int64]int, len(input.TillCounts))
		for value, count := range input.TillCounts {
			if count < 0 {
				count = 0
			}
			counts[value] = count
		}
		if err := s.denomRepo.SetCounts(ctx, counts); err != nil {
			return nil, err
		}
	}

	paid := money.Parse(input.PaidAmount)

	var purchaseID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		type resolvedLine struct {
			product  entity.Product
			quantity int
		}

		var lines []resolvedLine
		for _, line := range input.Lines {
			if line.ProductCode == "" || line.Quantity <= 0 {
				continue
			}
			var product entity.Product
			if err := tx.First(&product, "code = ?", line.ProductCode).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NewProductNotFoundError(line.ProductCode)
				}
				return err
			}
			if product.AvailableStock < line.Quantity {
				return apperror.NewInsufficientStockError(product.Name, product.AvailableStock)
			}
			lines = append(lines, resolvedLine{product: product, quantity: line.Quantity})
		}

		if len(lines) == 0 {
			return apperror.ErrEmptyCart
		}

		// Subtotal and tax accumulate unrounded; only the line totals are
		// rounded before summation. The aggregates are rounded once at the
		// end, so total == sum(rounded line totals) but may differ from
		// round(subtotal)+round(taxTotal) by a cent.
		subtotal := decimal.Zero
		taxTotal := decimal.Zero
		total := decimal.Zero

		items := make([]entity.PurchaseItem, 0, len(lines))
		for _, line := range lines {
			qty := decimal.NewFromInt(int64(line.quantity))
			lineSub := line.product.Price.Mul(qty)
			lineTax := lineSub.Mul(line.product.TaxPercentage).Div(decimal.NewFromInt(100))
			lineTotal := money.Round(lineSub.Add(lineTax))

			subtotal = subtotal.Add(lineSub)
			taxTotal = taxTotal.Add(lineTax)
			total = total.Add(lineTotal)

			items = append(items, entity.PurchaseItem{
				ProductID:     line.product.ID,
				Quantity:      line.quantity,
				UnitPrice:     line.product.Price,
				TaxPercentage: line.product.TaxPercentage,
				LineTotal:     lineTotal,
			})
		}

		subtotal = money.Round(subtotal)
		taxTotal = money.Round(taxTotal)

		if paid.LessThan(total) {
			return apperror.NewInsufficientPaymentError(total, paid)
		}
		balance := money.Round(paid.Sub(total))

		purchase := entity.Purchase{
			CustomerEmail: input.CustomerEmail,
			Subtotal:      subtotal,
			TaxTotal:      taxTotal,
			Total:         total,
			PaidAmount:    paid,
			Balance:       balance,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].PurchaseID = purchase.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// Guarded decrement: the stock check above was a plain read, so a
		// concurrent settlement may have drained the row since. The WHERE
		// guard serializes contenders and keeps stock non-negative.
		for _, line := range lines {
			res := tx.Model(&entity.Product{}).
				Where("id = ? AND available_stock >= ?", line.product.ID, line.quantity).
				Update("available_stock", gorm.Expr("available_stock - ?", line.quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperror.NewInsufficientStockError(line.product.Name, line.product.AvailableStock)
			}
		}

		// Stale change rows only exist if the same purchase were settled
		// twice; cleared anyway before recomputation.
		if err := tx.Where("purchase_id = ?", purchase.ID).
			Delete(&entity.ChangeDenomination{}).Error; err != nil {
			return err
		}

		changeDue := money.WholeUnits(balance)
		if changeDue > 0 {
			var denoms []entity.Denomination
			if err := tx.Order("value DESC").Find(&denoms).Error; err != nil {
				return err
			}

			allocations, remaining := makeChange(changeDue, denoms)
			if remaining > 0 {
				return apperror.NewInsufficientChangeError(remaining)
			}

			for _, alloc := range allocations {
				res := tx.Model(&entity.Denomination{}).
					Where("id = ? AND count_available >= ?", alloc.denomination.ID, alloc.count).
					Update("count_available", gorm.Expr("count_available - ?", alloc.count))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return apperror.NewInsufficientChangeError(alloc.denomination.Value * int64(alloc.count))
				}
				change := entity.ChangeDenomination{
					PurchaseID:        purchase.ID,
					DenominationValue: alloc.denomination.Value,
					CountGiven:        alloc.count,
				}
				if err := tx.Create(&change).Error; err != nil {
					return err
				}
			}
		}

		purchaseID = purchase.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.PublishInvoice(ctx, purchaseID); err != nil {
			// Fire and forget: a lost notification never fails a sale.
			log.Printf("Warning: failed to queue invoice for purchase %s: %v", purchaseID, err)
		}
	}

	return s.purchaseRepo.GetWithDetails(ctx, purchaseID)
}

// changeAllocation pairs a till denomination with the number of pieces the
// change decomposition takes from it.
type changeAllocation struct {
	denomination entity.Denomination
	count        int
}

// makeChange greedily decomposes amount into the given denominations, which
// must arrive ordered by face value descending. It returns the allocations
// and the amount it could not cover; remaining == 0 means full change.
//
// Greedy by largest face value is deterministic but not complete: with face
// values {4, 3} and amount 6 it takes one 4 and then fails even though 3+3
// works. Callers must treat remaining > 0 as a hard failure.
func makeChange(amount int64, denoms []entity.Denomination) ([]changeAllocation, int64) {
	remaining := amount
	var allocations []changeAllocation
	for _, denom := range denoms {
		if remaining <= 0 {
			break
		}
		if denom.Value <= 0 || denom.CountAvailable <= 0 {
			continue
		}
		take := remaining / denom.Value
		if take > int64(denom.CountAvailable) {
			take = int64(denom.CountAvailable)
		}
		if take > 0 {
			allocations = append(allocations, changeAllocation{denomination: denom, count: int(take)})
			remaining -= take * denom.Value
		}
	}
	return allocations, remaining
}
