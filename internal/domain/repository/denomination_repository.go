package repository

import (
	"context"

	"github.com/tillpoint/billing-api/internal/domain/entity"
)

// DenominationRepository defines till persistence operations
type DenominationRepository interface {
	Upsert(ctx context.Context, denom *entity.Denomination) error
	GetByValue(ctx context.Context, value int64) (*entity.Denomination, error)
	// ListDescending returns the whole till ordered by face value, largest
	// first, the order the change-making algorithm consumes it in.
	ListDescending(ctx context.Context) ([]entity.Denomination, error)
	// SetCounts overwrites availability counts for the given face values.
	// Unknown values are skipped. Used for manual till recounts.
	SetCounts(ctx context.Context, counts map[int64]int) error
}
