package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Companies and users
	CreateCompany(ctx context.Context, company *model.Company) error
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, now time.Time) error

	// Assets
	CreateAsset(ctx context.Context, asset *model.Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	GetAssetByQR(ctx context.Context, qrData string) (*model.Asset, error)
	ListAssets(ctx context.Context, f AssetFilter) ([]model.Asset, int64, error)
	SaveAsset(ctx context.Context, asset *model.Asset) error
	SoftDeleteAsset(ctx context.Context, asset *model.Asset, now time.Time) error

	// Tests
	CreateTest(ctx context.Context, test *model.Test) error
	GetTest(ctx context.Context, id uuid.UUID) (*model.Test, error)
	SaveTest(ctx context.Context, test *model.Test) error
	ListTests(ctx context.Context, f TestFilter) ([]model.Test, error)

	// Certificates
	IssueCertificate(ctx context.Context, cert *model.Certificate, asset *model.Asset) error
	GetCertificate(ctx context.Context, id uuid.UUID) (*model.Certificate, error)
	GetCertificateByNumber(ctx context.Context, number string) (*model.Certificate, error)
	ListCertificates(ctx context.Context, f CertificateFilter) ([]model.Certificate, error)
	SaveCertificate(ctx context.Context, cert *model.Certificate) error

	// Push subscriptions
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForCompany(ctx context.Context, companyID uuid.UUID) ([]model.PushSubscription, error)

	// Dashboard and alerting
	DashboardSummary(ctx context.Context, companyID *uuid.UUID, now time.Time) (DashboardSummary, error)
	ExpiringAssets(ctx context.Context, now time.Time, withinDays int) ([]model.Asset, error)

	// Audit trail
	AppendAudit(ctx context.Context, entry *model.AuditLog) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for transactional callers.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// notFound maps gorm's record-not-found onto the error taxonomy so the
// HTTP layer can translate it without importing gorm.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}
