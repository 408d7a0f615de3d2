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

func (s *gormStore) CreateCompany(ctx context.Context, company *model.Company) error {
	err := s.db.WithContext(ctx).Create(company).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflictf("company slug %q already exists", company.Slug)
	}
	return err
}

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflictf("email %q is already registered", user.Email)
	}
	return err
}

func (s *gormStore) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *gormStore) TouchLastLogin(ctx context.Context, id uuid.UUID, now time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login_at", now).Error
}

func (s *gormStore) AppendAudit(ctx context.Context, entry *model.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
