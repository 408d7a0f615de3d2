package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant boundary. Every asset, and transitively every
// test and certificate, belongs to exactly one company.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Users  []User  `gorm:"foreignKey:CompanyID" json:"-"`
	Assets []Asset `gorm:"foreignKey:CompanyID" json:"-"`
}
