// Package certificate implements the certificate state machine and the
// certificate numbering scheme.
//
// Stored states move draft → issued → {revoked, superseded}; "expired"
// is derived from the expiry date at read time and never written back.
package certificate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
)

// EffectiveStatus returns the status a reader should see: an issued
// certificate past its expiry date reports as expired.
func EffectiveStatus(c *model.Certificate, now time.Time) model.CertificateStatus {
	if c.Status == model.CertIssued && now.After(c.ExpiryDate) {
		return model.CertExpired
	}
	return c.Status
}

// IsValid reports whether the certificate is issued and not yet past
// its expiry date.
func IsValid(c *model.Certificate, now time.Time) bool {
	return EffectiveStatus(c, now) == model.CertIssued
}

// ExpiryFor derives the expiry date from the issue date. The invariant
// expiry_date == issue_date + validity_days holds for every issued
// certificate.
func ExpiryFor(issueDate time.Time, validityDays int) time.Time {
	return issueDate.AddDate(0, 0, validityDays)
}

// Revoke transitions the certificate to revoked and stamps the note
// with the revocation date. Revoking an already revoked certificate is
// a no-op and reports changed=false; callers treat repeated revocation
// as idempotent. Only issued certificates (including ones whose expiry
// has passed) can be revoked.
func Revoke(c *model.Certificate, reason string, now time.Time) (changed bool, err error) {
	switch c.Status {
	case model.CertRevoked:
		return false, nil
	case model.CertIssued:
		c.Status = model.CertRevoked
		if c.Notes != "" {
			c.Notes += "\n"
		}
		c.Notes += "Revoked " + now.UTC().Format("2006-01-02")
		if reason != "" {
			c.Notes += ": " + reason
		}
		return true, nil
	default:
		return false, apperr.Validationf("certificate in state %q cannot be revoked", c.Status)
	}
}

// Supersede marks a previously current certificate as replaced by a
// newer one. Only issued certificates are superseded; revoked ones
// stay revoked.
func Supersede(c *model.Certificate) bool {
	if c.Status != model.CertIssued {
		return false
	}
	c.Status = model.CertSuperseded
	return true
}

// Certificate numbers look like CERT-202509-00042: a monthly series
// whose sequence restarts each month. Uniqueness under concurrent
// generation is enforced by the unique index on certificate_number;
// the store retries with the next sequence on conflict.
const (
	numberPrefix = "CERT"
	seqWidth     = 5
)

// NumberPrefix returns the series prefix for the month of t, e.g.
// "CERT-202509-".
func NumberPrefix(t time.Time) string {
	return fmt.Sprintf("%s-%s-", numberPrefix, t.UTC().Format("200601"))
}

// NextNumber produces the number following last within the series for
// t. An empty or foreign-series last starts the series at 1.
func NextNumber(t time.Time, last string) string {
	prefix := NumberPrefix(t)
	seq := 1
	if s, ok := strings.CutPrefix(last, prefix); ok {
		if n, err := strconv.Atoi(s); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, seqWidth, seq)
}
