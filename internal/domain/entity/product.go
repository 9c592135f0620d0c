package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item sold over the counter. Prices and tax
// percentages are fixed-point decimals; available stock may never go negative.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Code           string          `gorm:"size:100;unique;not null;index" json:"code"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	TaxPercentage  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percentage"`
	AvailableStock int             `gorm:"not null;default:0" json:"available_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
