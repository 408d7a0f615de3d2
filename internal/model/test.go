package model

import (
	"time"

	"github.com/google/uuid"
)

// TestStatus tracks the lifecycle of an examination.
type TestStatus string

const (
	TestScheduled  TestStatus = "scheduled"
	TestInProgress TestStatus = "in_progress"
	TestCompleted  TestStatus = "completed"
	TestCancelled  TestStatus = "cancelled"
)

// TestResult is the computed verdict of an examination.
type TestResult string

const (
	ResultPending     TestResult = "pending"
	ResultPass        TestResult = "pass"
	ResultFail        TestResult = "fail"
	ResultConditional TestResult = "conditional"
)

// TestType is the kind of examination conducted.
type TestType string

const (
	TypeLoadTest         TestType = "load_test"
	TypeVisualInspection TestType = "visual_inspection"
	TypeFunctionalTest   TestType = "functional_test"
	TypeNDT              TestType = "ndt"
	TypeCalibration      TestType = "calibration"
	TypePeriodic         TestType = "periodic"
)

// Measurements are the named numeric readings taken during a test.
// All fields are optional; absent readings simply skip their check.
type Measurements struct {
	Deflection              *float64 `json:"deflection,omitempty"`
	MaxDeflection           *float64 `json:"max_deflection,omitempty"`
	PermanentDeformation    *float64 `json:"permanent_deformation,omitempty"`
	MaxPermanentDeformation *float64 `json:"max_permanent_deformation,omitempty"`
	BrakeTest               *bool    `json:"brake_test,omitempty"`
	IndicatorAccuracy       *float64 `json:"indicator_accuracy,omitempty"`
	AccuracyTolerance       *float64 `json:"accuracy_tolerance,omitempty"`
}

// Test is a single examination record for an asset. Once validated it
// is immutable except through explicit re-validation.
type Test struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"asset_id"`
	InspectorID *uuid.UUID `gorm:"type:uuid" json:"inspector_id,omitempty"`

	TestNumber string   `gorm:"uniqueIndex;size:100;not null" json:"test_number"`
	TestType   TestType `gorm:"size:30;not null;default:'load_test'" json:"test_type"`

	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	Status TestStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	Result TestResult `gorm:"size:20;not null;default:'pending'" json:"result"`

	SafeWorkingLoad    float64 `json:"safe_working_load"`
	TestLoad           float64 `json:"test_load"`
	LoadUnit           string  `gorm:"size:20;default:'ton'" json:"load_unit"`
	TestLoadPercentage float64 `json:"test_load_percentage,omitempty"`

	MeasuredValues *Measurements `gorm:"serializer:json" json:"measured_values,omitempty"`

	TestLocation    string `gorm:"size:255" json:"test_location,omitempty"`
	Observations    string `json:"observations,omitempty"`
	DefectsFound    string `json:"defects_found,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`

	ScannedQRData string     `gorm:"size:255" json:"scanned_qr_data,omitempty"`
	ScanTimestamp *time.Time `json:"scan_timestamp,omitempty"`

	IsValidated bool       `gorm:"not null;default:false" json:"is_validated"`
	ValidatedBy string     `gorm:"size:255" json:"validated_by,omitempty"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Asset Asset `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
