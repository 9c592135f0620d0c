package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognised by the access layer.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User represents an authenticated operator of the billing system
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FirstName  string    `gorm:"size:255;not null" json:"first_name"`
	LastName   string    `gorm:"size:255" json:"last_name"`
	Email      string    `gorm:"size:255;unique;not null" json:"email"`
	Password   string    `gorm:"size:255" json:"-"`
	Role       string    `gorm:"size:50;not null;default:'cashier'" json:"role"`
	Provider   string    `gorm:"size:50;default:'local'" json:"provider"`
	ProviderID *string   `gorm:"size:255" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
