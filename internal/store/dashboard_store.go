package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"certitrack-backend/internal/model"
)

// DashboardSummary aggregates the tenant's snapshot counts in a handful
// of grouped queries rather than loading rows.
func (s *gormStore) DashboardSummary(ctx context.Context, companyID *uuid.UUID, now time.Time) (DashboardSummary, error) {
	var summary DashboardSummary

	assetQ := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Asset{}).Where("is_deleted = ?", false)
		if companyID != nil {
			q = q.Where("company_id = ?", *companyID)
		}
		return q
	}

	if err := assetQ().Count(&summary.TotalAssets).Error; err != nil {
		return summary, fmt.Errorf("failed to count assets: %w", err)
	}
	if err := assetQ().Where("status = ?", model.AssetActive).Count(&summary.ActiveAssets).Error; err != nil {
		return summary, fmt.Errorf("failed to count active assets: %w", err)
	}

	soon := now.AddDate(0, 0, 30)
	if err := assetQ().
		Where("certificate_expiry_date <= ? AND certificate_expiry_date >= ?", soon, now).
		Count(&summary.ExpiringSoon).Error; err != nil {
		return summary, fmt.Errorf("failed to count expiring assets: %w", err)
	}
	if err := assetQ().
		Where("certificate_expiry_date < ?", now).
		Count(&summary.Expired).Error; err != nil {
		return summary, fmt.Errorf("failed to count expired assets: %w", err)
	}

	testQ := func() *gorm.DB {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		q := s.db.WithContext(ctx).Model(&model.Test{}).
			Where("tests.created_at >= ?", monthStart)
		if companyID != nil {
			q = q.Joins("JOIN assets ON assets.id = tests.asset_id").
				Where("assets.company_id = ?", *companyID)
		}
		return q
	}

	if err := testQ().Count(&summary.TestsThisMonth).Error; err != nil {
		return summary, fmt.Errorf("failed to count tests: %w", err)
	}
	var passed int64
	if err := testQ().Where("tests.result = ?", model.ResultPass).Count(&passed).Error; err != nil {
		return summary, fmt.Errorf("failed to count passed tests: %w", err)
	}
	if summary.TestsThisMonth > 0 {
		summary.PassRate = float64(passed) / float64(summary.TestsThisMonth) * 100
	}

	return summary, nil
}

// ExpiringAssets returns non-deleted assets whose certificate expiry
// lies within the window, or has already passed. Feeds the alert
// scheduler.
func (s *gormStore) ExpiringAssets(ctx context.Context, now time.Time, withinDays int) ([]model.Asset, error) {
	var assets []model.Asset
	err := s.db.WithContext(ctx).
		Where("is_deleted = ? AND certificate_expiry_date IS NOT NULL AND certificate_expiry_date <= ?",
			false, now.AddDate(0, 0, withinDays)).
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiring assets: %w", err)
	}
	return assets, nil
}
