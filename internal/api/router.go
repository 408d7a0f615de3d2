package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"certitrack-backend/config"
	"certitrack-backend/internal/model"
	"certitrack-backend/internal/mw"
	"certitrack-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, cfg)
	secret := []byte(cfg.Auth.JWTSecret)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)

	// Writes require an inspector-grade role; viewers only read.
	canWrite := mw.RequireRoles(model.RoleSuperAdmin, model.RoleCompanyAdmin, model.RoleInspector)
	adminOnly := mw.RequireRoles(model.RoleSuperAdmin, model.RoleCompanyAdmin)

	api := r.Group("/api/v1")
	api.Use(rateLimiter)
	{
		// Public endpoints: onboarding, login, and the verification
		// lookup printed on certificate documents.
		api.POST("/auth/register-company", handler.registerCompany)
		api.POST("/auth/login", handler.login)
		api.GET("/certificates/verify/:number",
			mw.Cache(cacheStore, time.Minute, mw.ByURI), handler.verifyCertificate)
		api.GET("/push/vapid_public_key", handler.vapidKey)

		authed := api.Group("")
		authed.Use(mw.Auth(secret))
		{
			authed.GET("/auth/me", handler.me)
			authed.POST("/auth/register", adminOnly, handler.registerUser)

			authed.GET("/dashboard/summary",
				mw.Cache(cacheStore, time.Minute, mw.ByURIAndCompany), handler.dashboard)

			authed.GET("/assets", handler.listAssets)
			authed.POST("/assets", canWrite, handler.createAsset)
			authed.GET("/assets/scan/:qr", handler.scanAsset)
			authed.GET("/assets/:id", handler.getAsset)
			authed.PATCH("/assets/:id", canWrite, handler.updateAsset)
			authed.DELETE("/assets/:id", adminOnly, handler.deleteAsset)

			authed.GET("/tests", handler.listTests)
			authed.POST("/tests", canWrite, handler.scheduleTest)
			authed.POST("/tests/submit", canWrite, handler.submitTest)
			authed.GET("/tests/:id", handler.getTest)
			authed.PATCH("/tests/:id", canWrite, handler.updateTest)
			authed.POST("/tests/:id/validate", canWrite, handler.revalidateTest)

			authed.GET("/certificates", handler.listCertificates)
			authed.POST("/certificates/generate", canWrite, handler.generateCertificate)
			authed.GET("/certificates/:id", handler.getCertificate)
			authed.POST("/certificates/:id/revoke", adminOnly, handler.revokeCertificate)

			authed.GET("/push/subscriptions", handler.listSubscriptions)
			authed.PUT("/push/subscriptions", handler.subscribe)
			authed.DELETE("/push/subscriptions", handler.unsubscribe)
		}
	}

	return r
}
