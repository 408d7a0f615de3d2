package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/certificate"
	"certitrack-backend/internal/expiry"
	"certitrack-backend/internal/model"
	"certitrack-backend/internal/store"
)

// certificateView reports the effective status, so an issued
// certificate past its expiry date shows as expired without a write.
type certificateView struct {
	model.Certificate
	EffectiveStatus model.CertificateStatus `json:"effective_status"`
}

func viewCertificate(cert model.Certificate, now time.Time) certificateView {
	return certificateView{
		Certificate:     cert,
		EffectiveStatus: certificate.EffectiveStatus(&cert, now),
	}
}

func (h *Handler) listCertificates(c *gin.Context) {
	id := currentIdentity(c)
	f := store.CertificateFilter{
		CompanyID:    id.scopeCompany(),
		Status:       model.CertificateStatus(c.Query("status")),
		ExpiringSoon: c.Query("expiring_soon") == "true",
	}
	if assetID, err := uuid.Parse(c.Query("asset_id")); err == nil {
		f.AssetID = &assetID
	}
	f.Page, _ = atoiQuery(c, "page")
	f.PageSize, _ = atoiQuery(c, "page_size")

	certs, err := h.store.ListCertificates(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	views := make([]certificateView, 0, len(certs))
	for _, cert := range certs {
		views = append(views, viewCertificate(cert, now))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

type generateCertificateRequest struct {
	TestID       uuid.UUID             `json:"test_id" binding:"required"`
	Type         model.CertificateType `json:"certificate_type"`
	ValidityDays int                   `json:"validity_days"`
	Notes        string                `json:"notes"`

	InspectorName          string `json:"inspector_name"`
	InspectorCertification string `json:"inspector_certification"`
}

// generateCertificate issues a certificate from a passed or conditional
// test. Regeneration for the same asset supersedes the prior current
// certificate rather than rewriting it.
func (h *Handler) generateCertificate(c *gin.Context) {
	var req generateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	test, err := h.store.GetTest(c.Request.Context(), req.TestID)
	if err != nil {
		respondError(c, err)
		return
	}
	id := currentIdentity(c)
	if !id.canAccess(test.Asset.CompanyID) {
		respondError(c, apperr.Forbidden("test belongs to another company"))
		return
	}
	if test.Result != model.ResultPass && test.Result != model.ResultConditional {
		respondError(c, apperr.Validationf("certificate requires a passed test, test %s result is %q", test.TestNumber, test.Result))
		return
	}

	validityDays := req.ValidityDays
	if validityDays <= 0 {
		validityDays = 365
	}
	certType := req.Type
	if certType == "" {
		certType = model.CertLoadTest
	}

	now := time.Now().UTC()
	inspectorName := req.InspectorName
	if inspectorName == "" {
		inspectorName = id.Name
	}

	cert := &model.Certificate{
		ID:                     uuid.New(),
		AssetID:                test.AssetID,
		TestID:                 &test.ID,
		CertificateType:        certType,
		IssueDate:              now,
		ExpiryDate:             certificate.ExpiryFor(now, validityDays),
		Status:                 model.CertIssued,
		InspectorName:          inspectorName,
		InspectorCertification: req.InspectorCertification,
		SignedBy:               id.Name,
		SignedAt:               &now,
		Notes:                  req.Notes,
	}

	asset := test.Asset
	if err := h.store.IssueCertificate(c.Request.Context(), cert, &asset); err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "certificate.issue", "certificate", cert.ID)
	c.JSON(http.StatusCreated, viewCertificate(*cert, now))
}

// loadCertificate fetches a certificate by path id and enforces tenant
// access via the owning asset.
func (h *Handler) loadCertificate(c *gin.Context) (*model.Certificate, bool) {
	certID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certificate id"})
		return nil, false
	}
	cert, err := h.store.GetCertificate(c.Request.Context(), certID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !currentIdentity(c).canAccess(cert.Asset.CompanyID) {
		respondError(c, apperr.Forbidden("certificate belongs to another company"))
		return nil, false
	}
	return cert, true
}

func (h *Handler) getCertificate(c *gin.Context) {
	cert, ok := h.loadCertificate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewCertificate(*cert, time.Now().UTC()))
}

type revokeCertificateRequest struct {
	Reason string `json:"reason"`
}

// revokeCertificate revokes an issued certificate. Revoking an already
// revoked certificate succeeds without change.
func (h *Handler) revokeCertificate(c *gin.Context) {
	cert, ok := h.loadCertificate(c)
	if !ok {
		return
	}

	var req revokeCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	changed, err := certificate.Revoke(cert, req.Reason, now)
	if err != nil {
		respondError(c, err)
		return
	}
	if changed {
		if err := h.store.SaveCertificate(c.Request.Context(), cert); err != nil {
			respondError(c, err)
			return
		}
		h.audit(c, "certificate.revoke", "certificate", cert.ID)
	}
	c.JSON(http.StatusOK, viewCertificate(*cert, now))
}

// verifyCertificate is the public, unauthenticated lookup printed on
// certificate documents. It deliberately reveals only what the paper
// certificate already shows.
func (h *Handler) verifyCertificate(c *gin.Context) {
	number := c.Param("number")
	cert, err := h.store.GetCertificateByNumber(c.Request.Context(), number)
	if err != nil {
		var nf *apperr.NotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusOK, gin.H{
				"valid":              false,
				"certificate_number": number,
				"message":            "certificate not found",
			})
			return
		}
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	status := certificate.EffectiveStatus(cert, now)
	c.JSON(http.StatusOK, gin.H{
		"valid":              certificate.IsValid(cert, now),
		"certificate_number": cert.CertificateNumber,
		"status":             status,
		"days_until_expiry":  expiry.DaysUntil(cert.ExpiryDate, now),
		"asset_name":         cert.Asset.Name,
		"asset_code":         cert.Asset.AssetCode,
		"issue_date":         cert.IssueDate,
		"expiry_date":        cert.ExpiryDate,
	})
}
