package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	domainRepo "github.com/tillpoint/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) domainRepo.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("Change").
		First(&purchase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &purchase, err
}

func (r *purchaseRepository) List(ctx context.Context, params *domainRepo.PurchaseFilterParams) ([]entity.Purchase, int64, error) {
	var purchases []entity.Purchase
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Purchase{})

	if params.CustomerEmail != "" {
		query = query.Where("LOWER(customer_email) = LOWER(?)", params.CustomerEmail)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").Preload("Change").
		Order("created_at DESC").
		Find(&purchases).Error

	return purchases, total, err
}
