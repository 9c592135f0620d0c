package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/pkg/pagination"
)

// ProductFilterParams holds filtering options for product listings
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}

// ProductRepository defines catalog persistence operations
type ProductRepository interface {
	Upsert(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountPurchaseItems(ctx context.Context, id uuid.UUID) (int64, error)
}
