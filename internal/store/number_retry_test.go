package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/certificate"
	"certitrack-backend/internal/model"
)

// stealTestNumbers reproduces a concurrent writer winning the race
// between the series lookup and the insert: after each test-number
// lookup it commits a row already holding the number about to be
// chosen. limit caps how many attempts it sabotages; the returned
// counter reports how many it actually took.
func stealTestNumbers(t *testing.T, gormDB *gorm.DB, assetID uuid.UUID, at time.Time, limit int) *int {
	t.Helper()
	taken := 0
	cb := func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*model.Test); !ok {
			return
		}
		last, ok := tx.Statement.Dest.(*string)
		if !ok || taken >= limit {
			return
		}
		taken++
		require.NoError(t, gormDB.Exec(
			`INSERT INTO tests (id, asset_id, test_number, test_type, status, result, is_validated, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New(), assetID, nextTestNumber(at, *last),
			model.TypeLoadTest, model.TestCompleted, model.ResultPass, false, at, at,
		).Error)
	}
	require.NoError(t, gormDB.Callback().Query().After("gorm:query").Register("steal_numbers", cb))
	t.Cleanup(func() { gormDB.Callback().Query().Remove("steal_numbers") })
	return &taken
}

func stealCertNumbers(t *testing.T, gormDB *gorm.DB, assetID uuid.UUID, issueDate time.Time, limit int) *int {
	t.Helper()
	taken := 0
	cb := func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*model.Certificate); !ok {
			return
		}
		last, ok := tx.Statement.Dest.(*string)
		if !ok || taken >= limit {
			return
		}
		taken++
		require.NoError(t, gormDB.Exec(
			`INSERT INTO certificates (id, asset_id, certificate_number, certificate_type, issue_date, expiry_date, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New(), assetID, certificate.NextNumber(issueDate, *last),
			model.CertLoadTest, issueDate, certificate.ExpiryFor(issueDate, 365),
			model.CertSuperseded, issueDate, issueDate,
		).Error)
	}
	require.NoError(t, gormDB.Callback().Query().After("gorm:query").Register("steal_numbers", cb))
	t.Cleanup(func() { gormDB.Callback().Query().Remove("steal_numbers") })
	return &taken
}

func TestCreateTest_RetriesOnNumberConflict(t *testing.T) {
	s, gormDB := newTestStoreDB(t)
	ctx := context.Background()
	_, asset := seedCompanyAndAsset(t, s)

	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	taken := stealTestNumbers(t, gormDB, asset.ID, now, 1)

	test := &model.Test{
		ID:        uuid.New(),
		AssetID:   asset.ID,
		Status:    model.TestCompleted,
		Result:    model.ResultPass,
		CreatedAt: now,
	}
	require.NoError(t, s.CreateTest(ctx, test))

	// First attempt lost its number to the interloper; the retry picked
	// the next one in the series.
	assert.Equal(t, 1, *taken)
	assert.Equal(t, testNumberPrefix(now)+"0002", test.TestNumber)
}

func TestCreateTest_NumberConflictExhausted(t *testing.T) {
	s, gormDB := newTestStoreDB(t)
	ctx := context.Background()
	_, asset := seedCompanyAndAsset(t, s)

	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	taken := stealTestNumbers(t, gormDB, asset.ID, now, testNumberAttempts)

	test := &model.Test{
		ID:        uuid.New(),
		AssetID:   asset.ID,
		Status:    model.TestCompleted,
		Result:    model.ResultPass,
		CreatedAt: now,
	}
	err := s.CreateTest(ctx, test)

	var ce *apperr.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, testNumberAttempts, *taken)
}

func TestIssueCertificate_RetriesOnNumberConflict(t *testing.T) {
	s, gormDB := newTestStoreDB(t)
	ctx := context.Background()
	_, asset := seedCompanyAndAsset(t, s)

	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	taken := stealCertNumbers(t, gormDB, asset.ID, now, 1)

	cert := &model.Certificate{
		ID:         uuid.New(),
		AssetID:    asset.ID,
		IssueDate:  now,
		ExpiryDate: certificate.ExpiryFor(now, 365),
		Status:     model.CertIssued,
	}
	require.NoError(t, s.IssueCertificate(ctx, cert, asset))

	assert.Equal(t, 1, *taken)
	assert.Equal(t, "CERT-202509-00002", cert.CertificateNumber)

	// The losing attempt rolled back cleanly: only the interloper and
	// the winner exist.
	var count int64
	require.NoError(t, gormDB.Model(&model.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestIssueCertificate_NumberConflictExhausted(t *testing.T) {
	s, gormDB := newTestStoreDB(t)
	ctx := context.Background()
	_, asset := seedCompanyAndAsset(t, s)

	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	taken := stealCertNumbers(t, gormDB, asset.ID, now, certNumberAttempts)

	cert := &model.Certificate{
		ID:         uuid.New(),
		AssetID:    asset.ID,
		IssueDate:  now,
		ExpiryDate: certificate.ExpiryFor(now, 365),
		Status:     model.CertIssued,
	}
	err := s.IssueCertificate(ctx, cert, asset)

	var ce *apperr.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, certNumberAttempts, *taken)
}
