package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certitrack-backend/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	companyID := uuid.New()
	user := &model.User{
		ID:        uuid.New(),
		CompanyID: &companyID,
		FullName:  "Avery Admin",
		Role:      model.RoleCompanyAdmin,
	}

	token, err := GenerateToken(user, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, companyID.String(), claims.CompanyID)
	assert.Equal(t, "Avery Admin", claims.Name)
	assert.Equal(t, "company_admin", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleViewer}
	token, err := GenerateToken(user, []byte("right"), time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("wrong"))
	assert.Error(t, err)
}

func TestValidateToken_RejectsUnsignedAlg(t *testing.T) {
	claims := Claims{
		UserID: uuid.NewString(),
		Role:   string(model.RoleSuperAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("secret"))
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleViewer}
	token, err := GenerateToken(user, []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("secret"))
	assert.Error(t, err)
}

func TestSuperAdminHasNoCompany(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleSuperAdmin}
	token, err := GenerateToken(user, []byte("secret"), time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, []byte("secret"))
	require.NoError(t, err)
	assert.Empty(t, claims.CompanyID)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("sup3r-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "sup3r-secret", hash)

	assert.True(t, CheckPassword(hash, "sup3r-secret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
