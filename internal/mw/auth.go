package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"certitrack-backend/internal/auth"
	"certitrack-backend/internal/model"
)

// Context keys set by the Auth middleware.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxUserRole  = "userRole"
	CtxCompanyID = "companyID"
)

// Auth validates the Bearer token and stores the caller's identity in
// the request context. Every tenant-scoped handler reads the company
// from here, never from the request body.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserName, claims.Name)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxCompanyID, claims.CompanyID)
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the caller holds one of the
// given roles. Must run after Auth.
func RequireRoles(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := model.UserRole(c.GetString(CtxUserRole))
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role for this action"})
	}
}
