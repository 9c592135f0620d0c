package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/pkg/pagination"
)

// PurchaseFilterParams holds filtering options for purchase history listings
type PurchaseFilterParams struct {
	Pagination *pagination.PaginationParams
	// CustomerEmail filters by case-insensitive exact match when non-empty.
	CustomerEmail string
}

// PurchaseRepository defines read access to settled purchases. Purchases are
// written only by the settlement transaction; there is no update path here.
type PurchaseRepository interface {
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	List(ctx context.Context, params *PurchaseFilterParams) ([]entity.Purchase, int64, error)
}
