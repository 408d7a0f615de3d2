package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
)

func (s *gormStore) CreateAsset(ctx context.Context, asset *model.Asset) error {
	err := s.db.WithContext(ctx).Create(asset).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflictf("asset code %q already exists in this company", asset.AssetCode)
	}
	return err
}

func (s *gormStore) GetAsset(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&asset).Error
	if err != nil {
		return nil, notFound(err, "asset")
	}
	return &asset, nil
}

func (s *gormStore) GetAssetByQR(ctx context.Context, qrData string) (*model.Asset, error) {
	var asset model.Asset
	err := s.db.WithContext(ctx).
		Where("qr_data = ? AND is_deleted = ?", qrData, false).
		First(&asset).Error
	if err != nil {
		return nil, notFound(err, "asset")
	}
	return &asset, nil
}

func (s *gormStore) ListAssets(ctx context.Context, f AssetFilter) ([]model.Asset, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Asset{}).Where("is_deleted = ?", false)

	if f.CompanyID != nil {
		q = q.Where("company_id = ?", *f.CompanyID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR asset_code LIKE ? OR serial_number LIKE ? OR location LIKE ?",
			like, like, like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ExpiringSoon {
		now := time.Now().UTC()
		q = q.Where("certificate_expiry_date <= ? AND certificate_expiry_date >= ?",
			now.AddDate(0, 0, 30), now)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	var assets []model.Asset
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&assets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, total, nil
}

func (s *gormStore) SaveAsset(ctx context.Context, asset *model.Asset) error {
	return s.db.WithContext(ctx).Save(asset).Error
}

// SoftDeleteAsset retires the row but keeps it for the audit trail.
func (s *gormStore) SoftDeleteAsset(ctx context.Context, asset *model.Asset, now time.Time) error {
	asset.IsDeleted = true
	asset.DeletedAt = &now
	return s.db.WithContext(ctx).Save(asset).Error
}
