package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
)

// Test numbers form a daily series, TST-20250901-0042. Uniqueness is
// enforced by the unique index on test_number; creation retries with
// the next sequence on conflict.
const testNumberAttempts = 5

func testNumberPrefix(t time.Time) string {
	return "TST-" + t.UTC().Format("20060102") + "-"
}

func nextTestNumber(t time.Time, last string) string {
	prefix := testNumberPrefix(t)
	seq := 1
	if s, ok := strings.CutPrefix(last, prefix); ok {
		if n, err := strconv.Atoi(s); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// CreateTest persists a new test, allocating its test number.
func (s *gormStore) CreateTest(ctx context.Context, test *model.Test) error {
	now := test.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	for attempt := 0; attempt < testNumberAttempts; attempt++ {
		last, err := s.lastNumberLike(ctx, &model.Test{}, "test_number", testNumberPrefix(now))
		if err != nil {
			return err
		}
		test.TestNumber = nextTestNumber(now, last)

		err = s.db.WithContext(ctx).Create(test).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create test: %w", err)
		}
	}
	return apperr.Conflictf("could not allocate a unique test number after %d attempts", testNumberAttempts)
}

// lastNumberLike fetches the highest stored number in a series. The
// zero-padded sequence makes lexicographic order match numeric order.
func (s *gormStore) lastNumberLike(ctx context.Context, mdl any, column, prefix string) (string, error) {
	var last string
	err := s.db.WithContext(ctx).Model(mdl).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return last, nil
}

func (s *gormStore) GetTest(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	var test model.Test
	err := s.db.WithContext(ctx).Preload("Asset").First(&test, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "test")
	}
	return &test, nil
}

func (s *gormStore) SaveTest(ctx context.Context, test *model.Test) error {
	return s.db.WithContext(ctx).Save(test).Error
}

func (s *gormStore) ListTests(ctx context.Context, f TestFilter) ([]model.Test, error) {
	q := s.db.WithContext(ctx).Model(&model.Test{})

	if f.CompanyID != nil {
		q = q.Joins("JOIN assets ON assets.id = tests.asset_id").
			Where("assets.company_id = ?", *f.CompanyID)
	}
	if f.AssetID != nil {
		q = q.Where("tests.asset_id = ?", *f.AssetID)
	}
	if f.Status != "" {
		q = q.Where("tests.status = ?", f.Status)
	}
	if f.Result != "" {
		q = q.Where("tests.result = ?", f.Result)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	var tests []model.Test
	err := q.Order("tests.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}
