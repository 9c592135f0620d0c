package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/internal/domain/repository"
	"github.com/tillpoint/billing-api/pkg/apperror"
	"github.com/tillpoint/billing-api/pkg/pagination"
)

// PurchaseService exposes the read-only purchase history surface
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(purchaseRepo repository.PurchaseRepository) *PurchaseService {
	return &PurchaseService{purchaseRepo: purchaseRepo}
}

// GetPurchase retrieves a settled purchase with its items and change rows
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases newest first, optionally filtered by
// case-insensitive exact customer e-mail match
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.PurchaseFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}
