package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"certitrack-backend/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_TouchLastLogin(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := &gormStore{db: gormDB}

	userID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "last_login_at"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(now, sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.TouchLastLogin(context.Background(), userID, now)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_LastNumberLike(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := &gormStore{db: gormDB}

	t.Run("existing series returns the top number", func(t *testing.T) {
		mock.ExpectQuery(`SELECT "test_number" FROM "tests" WHERE test_number LIKE \$1`).
			WithArgs("TST-20250901-%", 1).
			WillReturnRows(sqlmock.NewRows([]string{"test_number"}).AddRow("TST-20250901-0007"))

		last, err := s.lastNumberLike(context.Background(), &model.Test{}, "test_number", "TST-20250901-")
		require.NoError(t, err)
		assert.Equal(t, "TST-20250901-0007", last)
	})

	t.Run("empty series returns empty string", func(t *testing.T) {
		mock.ExpectQuery(`SELECT "test_number" FROM "tests" WHERE test_number LIKE \$1`).
			WithArgs("TST-20250902-%", 1).
			WillReturnRows(sqlmock.NewRows([]string{"test_number"}))

		last, err := s.lastNumberLike(context.Background(), &model.Test{}, "test_number", "TST-20250902-")
		require.NoError(t, err)
		assert.Empty(t, last)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
