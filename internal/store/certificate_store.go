package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/certificate"
	"certitrack-backend/internal/model"
)

const certNumberAttempts = 5

// IssueCertificate persists a new certificate in one transaction:
// allocates the next number in the monthly series, supersedes the
// asset's prior current certificate, and rolls the asset's inspection
// and expiry dates forward. Retries with a fresh sequence when a
// concurrent issuer wins the number.
func (s *gormStore) IssueCertificate(ctx context.Context, cert *model.Certificate, asset *model.Asset) error {
	for attempt := 0; attempt < certNumberAttempts; attempt++ {
		last, err := s.lastNumberLike(ctx, &model.Certificate{}, "certificate_number", certificate.NumberPrefix(cert.IssueDate))
		if err != nil {
			return err
		}
		cert.CertificateNumber = certificate.NextNumber(cert.IssueDate, last)

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&model.Certificate{}).
				Where("asset_id = ? AND status = ?", cert.AssetID, model.CertIssued).
				Update("status", model.CertSuperseded).Error; err != nil {
				return fmt.Errorf("failed to supersede prior certificates: %w", err)
			}

			if err := tx.Create(cert).Error; err != nil {
				return err
			}

			expiry := cert.ExpiryDate
			issue := cert.IssueDate
			nextInspection := expiry.AddDate(0, 0, -30)
			asset.CertificateExpiryDate = &expiry
			asset.LastInspectionDate = &issue
			asset.NextInspectionDate = &nextInspection
			if asset.Status == model.AssetPendingCertification {
				asset.Status = model.AssetActive
			}
			if err := tx.Save(asset).Error; err != nil {
				return fmt.Errorf("failed to update asset certification dates: %w", err)
			}
			return nil
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return apperr.Conflictf("could not allocate a unique certificate number after %d attempts", certNumberAttempts)
}

func (s *gormStore) GetCertificate(ctx context.Context, id uuid.UUID) (*model.Certificate, error) {
	var cert model.Certificate
	err := s.db.WithContext(ctx).Preload("Asset").First(&cert, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "certificate")
	}
	return &cert, nil
}

func (s *gormStore) GetCertificateByNumber(ctx context.Context, number string) (*model.Certificate, error) {
	var cert model.Certificate
	err := s.db.WithContext(ctx).Preload("Asset").
		First(&cert, "certificate_number = ?", number).Error
	if err != nil {
		return nil, notFound(err, "certificate")
	}
	return &cert, nil
}

func (s *gormStore) ListCertificates(ctx context.Context, f CertificateFilter) ([]model.Certificate, error) {
	q := s.db.WithContext(ctx).Model(&model.Certificate{}).Preload("Asset")

	if f.CompanyID != nil {
		q = q.Joins("JOIN assets ON assets.id = certificates.asset_id").
			Where("assets.company_id = ?", *f.CompanyID)
	}
	if f.AssetID != nil {
		q = q.Where("certificates.asset_id = ?", *f.AssetID)
	}
	if f.Status != "" {
		q = q.Where("certificates.status = ?", f.Status)
	}
	if f.ExpiringSoon {
		now := nowUTC()
		q = q.Where("certificates.expiry_date <= ? AND certificates.expiry_date >= ? AND certificates.status = ?",
			now.AddDate(0, 0, 30), now, model.CertIssued)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	var certs []model.Certificate
	err := q.Order("certificates.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certs, nil
}

func (s *gormStore) SaveCertificate(ctx context.Context, cert *model.Certificate) error {
	return s.db.WithContext(ctx).Save(cert).Error
}
