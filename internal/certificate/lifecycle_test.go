package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		cert     model.Certificate
		expected model.CertificateStatus
	}{
		{
			name:     "issued and current stays issued",
			cert:     model.Certificate{Status: model.CertIssued, ExpiryDate: now.AddDate(0, 0, 30)},
			expected: model.CertIssued,
		},
		{
			name:     "issued past expiry reads as expired",
			cert:     model.Certificate{Status: model.CertIssued, ExpiryDate: now.AddDate(0, 0, -1)},
			expected: model.CertExpired,
		},
		{
			name:     "revoked past expiry stays revoked",
			cert:     model.Certificate{Status: model.CertRevoked, ExpiryDate: now.AddDate(0, 0, -1)},
			expected: model.CertRevoked,
		},
		{
			name:     "draft is never expired",
			cert:     model.Certificate{Status: model.CertDraft, ExpiryDate: now.AddDate(0, 0, -1)},
			expected: model.CertDraft,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EffectiveStatus(&tc.cert, now))
		})
	}
}

func TestExpiryFor(t *testing.T) {
	issue := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ExpiryFor(issue, 365))
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), ExpiryFor(issue, 30))
}

func TestRevoke(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("issued certificate revokes", func(t *testing.T) {
		cert := model.Certificate{Status: model.CertIssued}
		changed, err := Revoke(&cert, "failed audit", now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, model.CertRevoked, cert.Status)
		assert.Equal(t, "Revoked 2025-09-01: failed audit", cert.Notes)
	})

	t.Run("note is dated even without a reason", func(t *testing.T) {
		cert := model.Certificate{Status: model.CertIssued}
		changed, err := Revoke(&cert, "", now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "Revoked 2025-09-01", cert.Notes)
	})

	t.Run("repeat revocation is a no-op", func(t *testing.T) {
		cert := model.Certificate{Status: model.CertRevoked, Notes: "Revoked: failed audit"}
		changed, err := Revoke(&cert, "again", now)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "Revoked: failed audit", cert.Notes)
	})

	t.Run("draft cannot be revoked", func(t *testing.T) {
		cert := model.Certificate{Status: model.CertDraft}
		_, err := Revoke(&cert, "", now)
		var ve *apperr.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("superseded cannot be revoked", func(t *testing.T) {
		cert := model.Certificate{Status: model.CertSuperseded}
		_, err := Revoke(&cert, "", now)
		assert.Error(t, err)
	})
}

func TestSupersede(t *testing.T) {
	cert := model.Certificate{Status: model.CertIssued}
	assert.True(t, Supersede(&cert))
	assert.Equal(t, model.CertSuperseded, cert.Status)

	revoked := model.Certificate{Status: model.CertRevoked}
	assert.False(t, Supersede(&revoked))
	assert.Equal(t, model.CertRevoked, revoked.Status)
}

func TestNumbering(t *testing.T) {
	sept := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "CERT-202509-", NumberPrefix(sept))

	t.Run("empty series starts at one", func(t *testing.T) {
		assert.Equal(t, "CERT-202509-00001", NextNumber(sept, ""))
	})

	t.Run("sequence increments", func(t *testing.T) {
		assert.Equal(t, "CERT-202509-00043", NextNumber(sept, "CERT-202509-00042"))
	})

	t.Run("new month restarts the series", func(t *testing.T) {
		oct := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "CERT-202510-00001", NextNumber(oct, "CERT-202509-00042"))
	})
}
