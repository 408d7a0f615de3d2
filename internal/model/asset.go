package model

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus is the operational status of a piece of equipment.
type AssetStatus string

const (
	AssetActive               AssetStatus = "active"
	AssetInactive             AssetStatus = "inactive"
	AssetUnderMaintenance     AssetStatus = "under_maintenance"
	AssetPendingCertification AssetStatus = "pending_certification"
	AssetRetired              AssetStatus = "retired"
)

// AssetCategory groups equipment for reporting.
type AssetCategory string

const (
	CategoryLifting   AssetCategory = "lifting"
	CategoryRigging   AssetCategory = "rigging"
	CategoryMeasuring AssetCategory = "measuring"
	CategoryTransport AssetCategory = "transport"
	CategoryOther     AssetCategory = "other"
)

// Asset is a registered piece of heavy equipment (crane, shackle, load
// cell, ...). Deletion is soft: the row stays for the audit trail.
type Asset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_assets_company_code,unique,where:is_deleted = false" json:"company_id"`

	AssetCode   string        `gorm:"size:100;not null;index:idx_assets_company_code,unique,where:is_deleted = false" json:"asset_code"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `json:"description,omitempty"`
	Category    AssetCategory `gorm:"size:30;not null;default:'lifting'" json:"category"`
	AssetType   string        `gorm:"size:50;not null;default:'other'" json:"asset_type"`

	Manufacturer string `gorm:"size:255" json:"manufacturer,omitempty"`
	Model        string `gorm:"size:255" json:"model,omitempty"`
	SerialNumber string `gorm:"size:255" json:"serial_number,omitempty"`

	SafeWorkingLoad float64 `json:"safe_working_load"`
	SWLUnit         string  `gorm:"size:20;default:'ton'" json:"swl_unit"`

	Location string `gorm:"size:255" json:"location,omitempty"`
	Site     string `gorm:"size:255" json:"site,omitempty"`

	// QRData is the payload encoded in the asset's QR label. Image
	// rendering is a frontend concern; only the payload is stored.
	QRData string `gorm:"size:255;index" json:"qr_data,omitempty"`

	Status AssetStatus `gorm:"size:30;not null;default:'active'" json:"status"`

	LastInspectionDate    *time.Time `json:"last_inspection_date,omitempty"`
	NextInspectionDate    *time.Time `json:"next_inspection_date,omitempty"`
	CertificateExpiryDate *time.Time `json:"certificate_expiry_date,omitempty"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`

	// Associations
	Company      Company       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tests        []Test        `gorm:"foreignKey:AssetID" json:"-"`
	Certificates []Certificate `gorm:"foreignKey:AssetID" json:"-"`
}
