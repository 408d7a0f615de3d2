package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
	"certitrack-backend/internal/store"
	"certitrack-backend/internal/validation"
)

func (h *Handler) listTests(c *gin.Context) {
	id := currentIdentity(c)
	f := store.TestFilter{
		CompanyID: id.scopeCompany(),
		Status:    model.TestStatus(c.Query("status")),
		Result:    model.TestResult(c.Query("result")),
	}
	if assetID, err := uuid.Parse(c.Query("asset_id")); err == nil {
		f.AssetID = &assetID
	}
	f.Page, _ = atoiQuery(c, "page")
	f.PageSize, _ = atoiQuery(c, "page_size")

	tests, err := h.store.ListTests(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tests})
}

type submitTestRequest struct {
	AssetID       uuid.UUID      `json:"asset_id" binding:"required"`
	TestType      model.TestType `json:"test_type"`
	ScheduledDate *time.Time     `json:"scheduled_date"`

	SafeWorkingLoad float64 `json:"safe_working_load"`
	TestLoad        float64 `json:"test_load" binding:"required"`
	LoadUnit        string  `json:"load_unit"`
	LoadPercent     float64 `json:"test_load_percentage"`

	MeasuredValues *model.Measurements `json:"measured_values"`

	TestLocation  string `json:"test_location"`
	Observations  string `json:"observations"`
	DefectsFound  string `json:"defects_found"`
	ScannedQRData string `json:"scanned_qr_data"`
}

// submitTest records a completed examination and runs the validation
// evaluator over it in one step. The verdict and per-check breakdown
// come back in the response; nothing is stored when the inputs fail
// validation.
func (h *Handler) submitTest(c *gin.Context) {
	var req submitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.store.GetAsset(c.Request.Context(), req.AssetID)
	if err != nil {
		respondError(c, err)
		return
	}
	id := currentIdentity(c)
	if !id.canAccess(asset.CompanyID) {
		respondError(c, apperr.Forbidden("asset belongs to another company"))
		return
	}

	// Fall back to the registered SWL when the submission omits it,
	// re-expressed in the unit the test load arrived in so the stored
	// record is internally consistent.
	swl := req.SafeWorkingLoad
	if swl <= 0 && asset.SafeWorkingLoad > 0 {
		converted, err := validation.Convert(asset.SafeWorkingLoad, asset.SWLUnit, req.LoadUnit)
		if err != nil {
			respondError(c, err)
			return
		}
		swl = converted
	}

	testType := req.TestType
	if testType == "" {
		testType = model.TypeLoadTest
	}

	outcome, err := validation.Evaluate(validation.Input{
		TestType:        testType,
		SafeWorkingLoad: swl,
		SWLUnit:         req.LoadUnit,
		TestLoad:        req.TestLoad,
		LoadUnit:        req.LoadUnit,
		LoadPercent:     req.LoadPercent,
		Measured:        req.MeasuredValues,
		DefectsFound:    req.DefectsFound,
	}, h.policy)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	test := &model.Test{
		ID:                 uuid.New(),
		AssetID:            asset.ID,
		InspectorID:        &id.UserID,
		TestType:           testType,
		ScheduledDate:      req.ScheduledDate,
		CompletedAt:        &now,
		Status:             model.TestCompleted,
		Result:             outcome.Result,
		SafeWorkingLoad:    swl,
		TestLoad:           req.TestLoad,
		LoadUnit:           req.LoadUnit,
		TestLoadPercentage: req.LoadPercent,
		MeasuredValues:     req.MeasuredValues,
		TestLocation:       req.TestLocation,
		Observations:       req.Observations,
		DefectsFound:       req.DefectsFound,
		Recommendations:    strings.Join(outcome.Recommendations, "\n"),
		IsValidated:        true,
		ValidatedBy:        id.Name,
		ValidatedAt:        &now,
	}
	if req.ScannedQRData != "" {
		test.ScannedQRData = req.ScannedQRData
		test.ScanTimestamp = &now
	}

	if err := h.store.CreateTest(c.Request.Context(), test); err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "test.submit", "test", test.ID)
	c.JSON(http.StatusCreated, gin.H{
		"test":               test,
		"result":             outcome.Result,
		"is_pass":            outcome.Result == model.ResultPass,
		"validation_details": outcome.Checks,
		"recommendations":    outcome.Recommendations,
	})
}

type scheduleTestRequest struct {
	AssetID       uuid.UUID      `json:"asset_id" binding:"required"`
	TestType      model.TestType `json:"test_type"`
	ScheduledDate *time.Time     `json:"scheduled_date"`
	TestLocation  string         `json:"test_location"`
}

// scheduleTest records a planned examination without any readings. The
// readings and the verdict come later through submit or validate.
func (h *Handler) scheduleTest(c *gin.Context) {
	var req scheduleTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.store.GetAsset(c.Request.Context(), req.AssetID)
	if err != nil {
		respondError(c, err)
		return
	}
	id := currentIdentity(c)
	if !id.canAccess(asset.CompanyID) {
		respondError(c, apperr.Forbidden("asset belongs to another company"))
		return
	}

	testType := req.TestType
	if testType == "" {
		testType = model.TypeLoadTest
	}
	test := &model.Test{
		ID:              uuid.New(),
		AssetID:         asset.ID,
		InspectorID:     &id.UserID,
		TestType:        testType,
		ScheduledDate:   req.ScheduledDate,
		Status:          model.TestScheduled,
		Result:          model.ResultPending,
		SafeWorkingLoad: asset.SafeWorkingLoad,
		LoadUnit:        asset.SWLUnit,
		TestLocation:    req.TestLocation,
	}
	if err := h.store.CreateTest(c.Request.Context(), test); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

type updateTestRequest struct {
	Status         *model.TestStatus   `json:"status"`
	ScheduledDate  *time.Time          `json:"scheduled_date"`
	TestLoad       *float64            `json:"test_load"`
	LoadUnit       *string             `json:"load_unit"`
	MeasuredValues *model.Measurements `json:"measured_values"`
	TestLocation   *string             `json:"test_location"`
	Observations   *string             `json:"observations"`
	DefectsFound   *string             `json:"defects_found"`
}

// updateTest amends a test that has not been validated yet. Validated
// tests are immutable except through explicit re-validation.
func (h *Handler) updateTest(c *gin.Context) {
	test, ok := h.loadTest(c)
	if !ok {
		return
	}
	if test.IsValidated {
		respondError(c, apperr.Validationf("test %s is validated and cannot be edited", test.TestNumber))
		return
	}

	var req updateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != nil {
		test.Status = *req.Status
		if *req.Status == model.TestCompleted && test.CompletedAt == nil {
			now := time.Now().UTC()
			test.CompletedAt = &now
		}
	}
	if req.ScheduledDate != nil {
		test.ScheduledDate = req.ScheduledDate
	}
	if req.TestLoad != nil {
		test.TestLoad = *req.TestLoad
	}
	if req.LoadUnit != nil {
		test.LoadUnit = *req.LoadUnit
	}
	if req.MeasuredValues != nil {
		test.MeasuredValues = req.MeasuredValues
	}
	if req.TestLocation != nil {
		test.TestLocation = *req.TestLocation
	}
	if req.Observations != nil {
		test.Observations = *req.Observations
	}
	if req.DefectsFound != nil {
		test.DefectsFound = *req.DefectsFound
	}

	if err := h.store.SaveTest(c.Request.Context(), test); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// loadTest fetches a test by path id and enforces tenant access via the
// owning asset.
func (h *Handler) loadTest(c *gin.Context) (*model.Test, bool) {
	testID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test id"})
		return nil, false
	}
	test, err := h.store.GetTest(c.Request.Context(), testID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !currentIdentity(c).canAccess(test.Asset.CompanyID) {
		respondError(c, apperr.Forbidden("test belongs to another company"))
		return nil, false
	}
	return test, true
}

func (h *Handler) getTest(c *gin.Context) {
	test, ok := h.loadTest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, test)
}

// revalidateTest re-runs the evaluator over a stored test, refreshing
// its verdict under the current policy.
func (h *Handler) revalidateTest(c *gin.Context) {
	test, ok := h.loadTest(c)
	if !ok {
		return
	}

	outcome, err := validation.Evaluate(validation.Input{
		TestType:        test.TestType,
		SafeWorkingLoad: test.SafeWorkingLoad,
		SWLUnit:         test.LoadUnit,
		TestLoad:        test.TestLoad,
		LoadUnit:        test.LoadUnit,
		LoadPercent:     test.TestLoadPercentage,
		Measured:        test.MeasuredValues,
		DefectsFound:    test.DefectsFound,
	}, h.policy)
	if err != nil {
		respondError(c, err)
		return
	}

	id := currentIdentity(c)
	now := time.Now().UTC()
	test.Result = outcome.Result
	test.Recommendations = strings.Join(outcome.Recommendations, "\n")
	test.IsValidated = true
	test.ValidatedBy = id.Name
	test.ValidatedAt = &now

	if err := h.store.SaveTest(c.Request.Context(), test); err != nil {
		respondError(c, err)
		return
	}

	h.audit(c, "test.revalidate", "test", test.ID)
	c.JSON(http.StatusOK, gin.H{
		"test":               test,
		"result":             outcome.Result,
		"is_pass":            outcome.Result == model.ResultPass,
		"validation_details": outcome.Checks,
		"recommendations":    outcome.Recommendations,
	})
}
