package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is the immutable record of a settled sale. All money fields are
// fixed to two decimals at settlement; total is the sum of the already-rounded
// line totals while subtotal and tax total are each rounded once at the end,
// so total need not equal subtotal+tax_total to the cent.
type Purchase struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerEmail string          `gorm:"size:255;not null;index" json:"customer_email"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_total"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Balance       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	// Relationships
	Items  []PurchaseItem       `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Change []ChangeDenomination `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"change,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem is one cart line of a purchase. Unit price and tax percentage
// are snapshotted at sale time so later catalog edits do not rewrite history.
// The product reference is protected: a product cannot be deleted while
// purchase items point at it.
type PurchaseItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_percentage"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase item
func (pi *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseItem model
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// ChangeDenomination records how many pieces of one face value were handed
// back as change for a purchase.
type ChangeDenomination struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID        uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_id"`
	DenominationValue int64     `gorm:"not null" json:"denomination_value"`
	CountGiven        int       `gorm:"not null" json:"count_given"`
}

// BeforeCreate generates a UUID before creating a new change denomination
func (cd *ChangeDenomination) BeforeCreate(tx *gorm.DB) error {
	if cd.ID == uuid.Nil {
		cd.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ChangeDenomination model
func (ChangeDenomination) TableName() string {
	return "change_denominations"
}
