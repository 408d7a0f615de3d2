package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"certitrack-backend/internal/expiry"
)

// dashboard returns the company's aggregate snapshot plus the assets
// whose certificates are inside the warning window, bucketed by tier.
func (h *Handler) dashboard(c *gin.Context) {
	id := currentIdentity(c)
	now := time.Now().UTC()

	summary, err := h.store.DashboardSummary(c.Request.Context(), id.scopeCompany(), now)
	if err != nil {
		respondError(c, err)
		return
	}

	assets, err := h.store.ExpiringAssets(c.Request.Context(), now, 30)
	if err != nil {
		respondError(c, err)
		return
	}

	expiring := make([]assetView, 0)
	for _, a := range assets {
		if !id.canAccess(a.CompanyID) {
			continue
		}
		v := viewAsset(a, now)
		if v.ExpiryTier == expiry.TierOK {
			continue
		}
		expiring = append(expiring, v)
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":         summary,
		"expiring_assets": expiring,
	})
}
