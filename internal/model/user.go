package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole controls what a user may do within their company.
type UserRole string

const (
	RoleSuperAdmin   UserRole = "super_admin"
	RoleCompanyAdmin UserRole = "company_admin"
	RoleInspector    UserRole = "inspector"
	RoleViewer       UserRole = "viewer"
)

// User is an account scoped to a company, except super admins which
// have no company and see every tenant.
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID      *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	Email          string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword string     `gorm:"size:255;not null" json:"-"`
	FullName       string     `gorm:"size:255;not null" json:"full_name"`
	Role           UserRole   `gorm:"size:30;not null;default:'viewer'" json:"role"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`

	// Associations
	Company *Company `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
