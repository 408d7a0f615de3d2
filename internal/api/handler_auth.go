package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"certitrack-backend/internal/auth"
	"certitrack-backend/internal/model"
)

type registerCompanyRequest struct {
	CompanyName   string `json:"company_name" binding:"required"`
	CompanyEmail  string `json:"company_email" binding:"required,email"`
	CompanyPhone  string `json:"company_phone"`
	Address       string `json:"address"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
	AdminFullName string `json:"admin_full_name" binding:"required"`
}

// slugify turns a company name into a URL-safe slug.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// registerCompany onboards a new tenant: the company plus its first
// company_admin user, in one request.
func (h *Handler) registerCompany(c *gin.Context) {
	var req registerCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := auth.HashPassword(req.AdminPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	company := &model.Company{
		ID:       uuid.New(),
		Name:     req.CompanyName,
		Slug:     slugify(req.CompanyName),
		Email:    req.CompanyEmail,
		Phone:    req.CompanyPhone,
		Address:  req.Address,
		IsActive: true,
	}
	if err := h.store.CreateCompany(c.Request.Context(), company); err != nil {
		respondError(c, err)
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		CompanyID:      &company.ID,
		Email:          req.AdminEmail,
		HashedPassword: hashed,
		FullName:       req.AdminFullName,
		Role:           model.RoleCompanyAdmin,
		IsActive:       true,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"company": company,
		"user":    user,
	})
}

type registerUserRequest struct {
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=8"`
	FullName string         `json:"full_name" binding:"required"`
	Role     model.UserRole `json:"role"`
}

// registerUser adds a user to the caller's company. Company admins may
// create inspectors and viewers; they cannot mint another tenant's
// accounts because the company always comes from the token.
func (h *Handler) registerUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := currentIdentity(c)
	role := req.Role
	switch role {
	case model.RoleInspector, model.RoleViewer, model.RoleCompanyAdmin:
	case "":
		role = model.RoleViewer
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		CompanyID:      id.CompanyID,
		Email:          req.Email,
		HashedPassword: hashed,
		FullName:       req.FullName,
		Role:           role,
		IsActive:       true,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.IsActive || !auth.CheckPassword(user.HashedPassword, req.Password) {
		// Same answer for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user, []byte(h.cfg.Auth.JWTSecret), h.cfg.Auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := h.store.TouchLastLogin(c.Request.Context(), user.ID, time.Now().UTC()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// me returns the authenticated user's profile.
func (h *Handler) me(c *gin.Context) {
	id := currentIdentity(c)
	user, err := h.store.GetUser(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
