package store

import (
	"time"

	"github.com/google/uuid"

	"certitrack-backend/internal/model"
)

func nowUTC() time.Time { return time.Now().UTC() }

// AssetFilter narrows asset listings. CompanyID nil means no tenant
// filter (super admin only).
type AssetFilter struct {
	CompanyID    *uuid.UUID
	Search       string
	Category     model.AssetCategory
	Status       model.AssetStatus
	ExpiringSoon bool
	Page         int
	PageSize     int
}

// TestFilter narrows test listings.
type TestFilter struct {
	CompanyID *uuid.UUID
	AssetID   *uuid.UUID
	Status    model.TestStatus
	Result    model.TestResult
	Page      int
	PageSize  int
}

// CertificateFilter narrows certificate listings.
type CertificateFilter struct {
	CompanyID    *uuid.UUID
	AssetID      *uuid.UUID
	Status       model.CertificateStatus
	ExpiringSoon bool
	Page         int
	PageSize     int
}

// DashboardSummary is the aggregate snapshot behind the dashboard.
type DashboardSummary struct {
	TotalAssets    int64   `json:"total_assets"`
	ActiveAssets   int64   `json:"active_assets"`
	ExpiringSoon   int64   `json:"expiring_soon"`
	Expired        int64   `json:"expired"`
	TestsThisMonth int64   `json:"tests_this_month"`
	PassRate       float64 `json:"pass_rate"`
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
