package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/expiry"
	"certitrack-backend/internal/model"
	"certitrack-backend/internal/store"
)

// assetView decorates an asset with the derived expiry tier so clients
// never recompute the bucketing themselves.
type assetView struct {
	model.Asset
	ExpiryTier      expiry.Tier `json:"expiry_tier"`
	DaysUntilExpiry *int        `json:"days_until_expiry,omitempty"`
}

func viewAsset(a model.Asset, now time.Time) assetView {
	v := assetView{Asset: a, ExpiryTier: expiry.TierOK}
	if a.CertificateExpiryDate != nil {
		days := expiry.DaysUntil(*a.CertificateExpiryDate, now)
		v.DaysUntilExpiry = &days
		v.ExpiryTier = expiry.ClassifyDays(days)
	}
	return v
}

func (h *Handler) listAssets(c *gin.Context) {
	id := currentIdentity(c)
	f := store.AssetFilter{
		CompanyID:    id.scopeCompany(),
		Search:       c.Query("search"),
		Category:     model.AssetCategory(c.Query("category")),
		Status:       model.AssetStatus(c.Query("status")),
		ExpiringSoon: c.Query("expiring_soon") == "true",
	}
	f.Page, _ = atoiQuery(c, "page")
	f.PageSize, _ = atoiQuery(c, "page_size")

	assets, total, err := h.store.ListAssets(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	views := make([]assetView, 0, len(assets))
	for _, a := range assets {
		views = append(views, viewAsset(a, now))
	}
	c.JSON(http.StatusOK, gin.H{"items": views, "total": total})
}

type createAssetRequest struct {
	AssetCode       string              `json:"asset_code" binding:"required"`
	Name            string              `json:"name" binding:"required"`
	Description     string              `json:"description"`
	Category        model.AssetCategory `json:"category"`
	AssetType       string              `json:"asset_type"`
	Manufacturer    string              `json:"manufacturer"`
	Model           string              `json:"model"`
	SerialNumber    string              `json:"serial_number"`
	SafeWorkingLoad float64             `json:"safe_working_load"`
	SWLUnit         string              `json:"swl_unit"`
	Location        string              `json:"location"`
	Site            string              `json:"site"`
}

func (h *Handler) createAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := currentIdentity(c)
	if id.CompanyID == nil {
		respondError(c, apperr.Forbidden("asset creation requires a company account"))
		return
	}

	asset := &model.Asset{
		ID:              uuid.New(),
		CompanyID:       *id.CompanyID,
		AssetCode:       req.AssetCode,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		AssetType:       req.AssetType,
		Manufacturer:    req.Manufacturer,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		SafeWorkingLoad: req.SafeWorkingLoad,
		SWLUnit:         req.SWLUnit,
		Location:        req.Location,
		Site:            req.Site,
		Status:          model.AssetPendingCertification,
	}
	if asset.Category == "" {
		asset.Category = model.CategoryLifting
	}
	if asset.SWLUnit == "" {
		asset.SWLUnit = "ton"
	}
	asset.QRData = "CT-" + asset.ID.String()

	if err := h.store.CreateAsset(c.Request.Context(), asset); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewAsset(*asset, time.Now().UTC()))
}

// loadAsset fetches an asset by path id and enforces tenant access.
func (h *Handler) loadAsset(c *gin.Context) (*model.Asset, bool) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return nil, false
	}
	asset, err := h.store.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !currentIdentity(c).canAccess(asset.CompanyID) {
		respondError(c, apperr.Forbidden("asset belongs to another company"))
		return nil, false
	}
	return asset, true
}

func (h *Handler) getAsset(c *gin.Context) {
	asset, ok := h.loadAsset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewAsset(*asset, time.Now().UTC()))
}

type updateAssetRequest struct {
	Name            *string              `json:"name"`
	Description     *string              `json:"description"`
	Category        *model.AssetCategory `json:"category"`
	AssetType       *string              `json:"asset_type"`
	Manufacturer    *string              `json:"manufacturer"`
	Model           *string              `json:"model"`
	SerialNumber    *string              `json:"serial_number"`
	SafeWorkingLoad *float64             `json:"safe_working_load"`
	SWLUnit         *string              `json:"swl_unit"`
	Location        *string              `json:"location"`
	Site            *string              `json:"site"`
	Status          *model.AssetStatus   `json:"status"`
}

func (h *Handler) updateAsset(c *gin.Context) {
	asset, ok := h.loadAsset(c)
	if !ok {
		return
	}

	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&asset.Name, req.Name)
	applyString(&asset.Description, req.Description)
	applyString(&asset.AssetType, req.AssetType)
	applyString(&asset.Manufacturer, req.Manufacturer)
	applyString(&asset.Model, req.Model)
	applyString(&asset.SerialNumber, req.SerialNumber)
	applyString(&asset.SWLUnit, req.SWLUnit)
	applyString(&asset.Location, req.Location)
	applyString(&asset.Site, req.Site)
	if req.Category != nil {
		asset.Category = *req.Category
	}
	if req.SafeWorkingLoad != nil {
		asset.SafeWorkingLoad = *req.SafeWorkingLoad
	}
	if req.Status != nil {
		asset.Status = *req.Status
	}

	if err := h.store.SaveAsset(c.Request.Context(), asset); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewAsset(*asset, time.Now().UTC()))
}

func (h *Handler) deleteAsset(c *gin.Context) {
	asset, ok := h.loadAsset(c)
	if !ok {
		return
	}
	if err := h.store.SoftDeleteAsset(c.Request.Context(), asset, time.Now().UTC()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// scanAsset resolves a scanned QR payload to the asset it labels.
func (h *Handler) scanAsset(c *gin.Context) {
	asset, err := h.store.GetAssetByQR(c.Request.Context(), c.Param("qr"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !currentIdentity(c).canAccess(asset.CompanyID) {
		respondError(c, apperr.Forbidden("asset belongs to another company"))
		return
	}
	c.JSON(http.StatusOK, viewAsset(*asset, time.Now().UTC()))
}

func atoiQuery(c *gin.Context, key string) (int, bool) {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0, false
	}
	return n, true
}
