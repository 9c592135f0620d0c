package repository

import (
	"context"
	"errors"

	"github.com/tillpoint/billing-api/internal/domain/entity"
	domainRepo "github.com/tillpoint/billing-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type denominationRepository struct {
	db *gorm.DB
}

// NewDenominationRepository creates a new denomination repository
func NewDenominationRepository(db *gorm.DB) domainRepo.DenominationRepository {
	return &denominationRepository{db: db}
}

// Upsert creates the face value or overwrites its availability count.
func (r *denominationRepository) Upsert(ctx context.Context, denom *entity.Denomination) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "value"}},
		DoUpdates: clause.AssignmentColumns([]string{"count_available", "updated_at"}),
	}).Create(denom).Error
}

func (r *denominationRepository) GetByValue(ctx context.Context, value int64) (*entity.Denomination, error) {
	var denom entity.Denomination
	err := r.db.WithContext(ctx).First(&denom, "value = ?", value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &denom, err
}

func (r *denominationRepository) ListDescending(ctx context.Context) ([]entity.Denomination, error) {
	var denoms []entity.Denomination
	err := r.db.WithContext(ctx).Order("value DESC").Find(&denoms).Error
	return denoms, err
}

// SetCounts overwrites availability for the given face values in one
// transaction. Face values with no till row are skipped; a recount cannot
// introduce new denominations.
func (r *denominationRepository) SetCounts(ctx context.Context, counts map[int64]int) error {
	if len(counts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for value, count := range counts {
			if err := tx.Model(&entity.Denomination{}).
				Where("value = ?", value).
				Update("count_available", count).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
