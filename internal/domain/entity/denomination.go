package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Denomination represents one face value of physical currency in the till and
// how many pieces of it are on hand. One row per distinct face value; the
// change-making algorithm walks these in descending value order.
type Denomination struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Value          int64     `gorm:"unique;not null" json:"value"`
	CountAvailable int       `gorm:"not null;default:0" json:"count_available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new denomination
func (d *Denomination) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Denomination model
func (Denomination) TableName() string {
	return "denominations"
}
