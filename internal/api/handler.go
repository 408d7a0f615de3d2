package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"certitrack-backend/config"
	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
	"certitrack-backend/internal/mw"
	"certitrack-backend/internal/store"
	"certitrack-backend/internal/validation"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	cfg    *config.Config
	policy validation.Policy
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, cfg *config.Config) *Handler {
	return &Handler{
		store:  s,
		cfg:    cfg,
		policy: validation.PolicyFromConfig(cfg.Validation),
	}
}

// identity is the authenticated caller, as placed in the context by
// the auth middleware.
type identity struct {
	UserID    uuid.UUID
	Name      string
	Role      model.UserRole
	CompanyID *uuid.UUID
}

func currentIdentity(c *gin.Context) identity {
	id := identity{
		Name: c.GetString(mw.CtxUserName),
		Role: model.UserRole(c.GetString(mw.CtxUserRole)),
	}
	if uid, err := uuid.Parse(c.GetString(mw.CtxUserID)); err == nil {
		id.UserID = uid
	}
	if cid, err := uuid.Parse(c.GetString(mw.CtxCompanyID)); err == nil {
		id.CompanyID = &cid
	}
	return id
}

// canAccess reports whether the caller may touch data owned by the
// given company. Super admins cross tenants; everyone else stays home.
func (id identity) canAccess(companyID uuid.UUID) bool {
	if id.Role == model.RoleSuperAdmin {
		return true
	}
	return id.CompanyID != nil && *id.CompanyID == companyID
}

// scopeCompany returns the tenant filter for list queries: nil for
// super admins, the caller's company otherwise.
func (id identity) scopeCompany() *uuid.UUID {
	if id.Role == model.RoleSuperAdmin {
		return nil
	}
	return id.CompanyID
}

// audit appends an audit trail entry for the caller's action. A failed
// audit write never fails the request that triggered it.
func (h *Handler) audit(c *gin.Context, action, entityType string, entityID uuid.UUID) {
	id := currentIdentity(c)
	entry := &model.AuditLog{
		UserID:     &id.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if id.CompanyID != nil {
		entry.CompanyID = *id.CompanyID
	}
	_ = h.store.AppendAudit(c.Request.Context(), entry)
}

// respondError maps the error taxonomy onto HTTP status codes. Errors
// reach here untouched from the evaluator and store.
func respondError(c *gin.Context, err error) {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		ce *apperr.ConflictError
		ae *apperr.AuthorizationError
	)
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.As(err, &nf):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &ce):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": ce.Error()})
	case errors.As(err, &ae):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": ae.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
