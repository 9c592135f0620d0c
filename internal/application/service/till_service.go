package service

import (
	"context"
	"strconv"

	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/internal/domain/repository"
	"github.com/tillpoint/billing-api/pkg/apperror"
)

// TillService manages the till's denomination inventory
type TillService struct {
	denomRepo repository.DenominationRepository
}

// NewTillService creates a new till service
func NewTillService(denomRepo repository.DenominationRepository) *TillService {
	return &TillService{denomRepo: denomRepo}
}

// UpsertDenominationInput carries raw till form fields. The face value must
// parse as a positive integer or the write is rejected; the count defaults to
// zero on parse failure and clamps to non-negative.
type UpsertDenominationInput struct {
	Value string
	Count string
}

// UpsertDenomination creates or updates a denomination keyed by face value
func (s *TillService) UpsertDenomination(ctx context.Context, input *UpsertDenominationInput) (*entity.Denomination, error) {
	value, err := strconv.ParseInt(input.Value, 10, 64)
	if err != nil || value <= 0 {
		return nil, apperror.NewInvalidDenominationError(input.Value)
	}

	count, err := strconv.Atoi(input.Count)
	if err != nil || count < 0 {
		count = 0
	}

	denom := &entity.Denomination{
		Value:          value,
		CountAvailable: count,
	}
	if err := s.denomRepo.Upsert(ctx, denom); err != nil {
		return nil, err
	}

	return s.denomRepo.GetByValue(ctx, value)
}

// ListTill returns the till contents ordered by face value descending
func (s *TillService) ListTill(ctx context.Context) ([]entity.Denomination, error) {
	return s.denomRepo.ListDescending(ctx)
}
