package model

import (
	"time"

	"github.com/google/uuid"
)

// CertificateStatus is the stored state of a certificate. "expired" is
// derived from the expiry date at read time and never written back.
type CertificateStatus string

const (
	CertDraft      CertificateStatus = "draft"
	CertIssued     CertificateStatus = "issued"
	CertExpired    CertificateStatus = "expired"
	CertRevoked    CertificateStatus = "revoked"
	CertSuperseded CertificateStatus = "superseded"
)

// CertificateType is the kind of certification issued.
type CertificateType string

const (
	CertLoadTest            CertificateType = "load_test"
	CertThoroughExamination CertificateType = "thorough_examination"
	CertCalibration         CertificateType = "calibration"
	CertInspection          CertificateType = "inspection"
	CertAnnual              CertificateType = "annual"
)

// Certificate is an issued certification document for an asset,
// optionally backed by a test. Regeneration creates a new row and
// supersedes the prior one; existing certificates are never rewritten.
type Certificate struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID uuid.UUID  `gorm:"type:uuid;not null;index" json:"asset_id"`
	TestID  *uuid.UUID `gorm:"type:uuid" json:"test_id,omitempty"`

	CertificateNumber string          `gorm:"uniqueIndex;size:100;not null" json:"certificate_number"`
	CertificateType   CertificateType `gorm:"size:30;not null;default:'load_test'" json:"certificate_type"`

	IssueDate  time.Time `gorm:"not null" json:"issue_date"`
	ExpiryDate time.Time `gorm:"not null" json:"expiry_date"`

	Status CertificateStatus `gorm:"size:20;not null;default:'draft'" json:"status"`

	// PDFURL points at the rendered document; rendering and storage
	// are owned by the document service.
	PDFURL string `gorm:"size:500" json:"pdf_url,omitempty"`

	InspectorName          string     `gorm:"size:255" json:"inspector_name,omitempty"`
	InspectorCertification string     `gorm:"size:255" json:"inspector_certification,omitempty"`
	SignedBy               string     `gorm:"size:255" json:"signed_by,omitempty"`
	SignedAt               *time.Time `json:"signed_at,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Asset Asset `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Test  *Test `json:"-"`
}
