// Package validation implements the load-test validation evaluator: a
// deterministic rules engine that turns submitted test parameters into
// a pass/fail/conditional verdict with a per-check breakdown.
package validation

import (
	"fmt"
	"math"

	"certitrack-backend/config"
	"certitrack-backend/internal/apperr"
	"certitrack-backend/internal/model"
)

// CheckStatus is the outcome of a single sub-check.
type CheckStatus string

const (
	CheckPass        CheckStatus = "pass"
	CheckFail        CheckStatus = "fail"
	CheckConditional CheckStatus = "conditional"
)

// CheckResult is one named sub-check with its outcome and detail line.
type CheckResult struct {
	Status CheckStatus `json:"status"`
	Detail string      `json:"detail"`
}

// Policy carries the configurable validation thresholds. Percentages
// follow inspector convention: 125 means 125% of SWL.
type Policy struct {
	ProofLoadPercent        float64
	LoadTolerance           float64
	MaxPermanentDeformation float64
	AccuracyTolerance       float64
	TestTypePercent         map[string]float64
}

// PolicyFromConfig builds a Policy from the loaded configuration.
func PolicyFromConfig(cfg config.ValidationConfig) Policy {
	return Policy{
		ProofLoadPercent:        cfg.ProofLoadPercent,
		LoadTolerance:           cfg.LoadTolerance,
		MaxPermanentDeformation: cfg.MaxPermanentDeformation,
		AccuracyTolerance:       cfg.AccuracyTolerance,
		TestTypePercent:         cfg.TestTypePercent,
	}
}

// requiredPercent resolves the load multiple for a test type, in order:
// explicit request override, per-type policy, global default.
func (p Policy) requiredPercent(testType model.TestType, override float64) float64 {
	if override > 0 {
		return override
	}
	if pct, ok := p.TestTypePercent[string(testType)]; ok && pct > 0 {
		return pct
	}
	return p.ProofLoadPercent
}

// Input is everything the evaluator needs. Loads may arrive in mixed
// units; they are normalized to kilograms before any comparison.
type Input struct {
	TestType        model.TestType
	SafeWorkingLoad float64
	SWLUnit         string
	TestLoad        float64
	LoadUnit        string
	LoadPercent     float64 // optional override of the policy multiple
	Measured        *model.Measurements
	DefectsFound    string
}

// Outcome is the verdict plus the structured breakdown of sub-checks.
type Outcome struct {
	Result          model.TestResult       `json:"result"`
	Checks          map[string]CheckResult `json:"validation_details"`
	Recommendations []string               `json:"recommendations,omitempty"`
}

// Evaluate computes the verdict for a submitted test. It is pure: no
// I/O, no clock, no global state. A ValidationError is returned when
// required numeric inputs are missing or not positive; no verdict is
// computed in that case.
//
// Verdict rules: any failed sub-check forces fail; otherwise any
// conditional sub-check yields conditional; otherwise pass.
func Evaluate(in Input, pol Policy) (Outcome, error) {
	if in.SafeWorkingLoad <= 0 {
		return Outcome{}, apperr.Validationf("safe_working_load must be a positive number, got %v", in.SafeWorkingLoad)
	}
	if in.TestLoad <= 0 {
		return Outcome{}, apperr.Validationf("test_load must be a positive number, got %v", in.TestLoad)
	}

	swlUnit := in.SWLUnit
	if swlUnit == "" {
		swlUnit = in.LoadUnit
	}
	swlKg, err := ToKilograms(in.SafeWorkingLoad, swlUnit)
	if err != nil {
		return Outcome{}, err
	}
	loadKg, err := ToKilograms(in.TestLoad, in.LoadUnit)
	if err != nil {
		return Outcome{}, err
	}

	checks := make(map[string]CheckResult)
	var recs []string

	// Load check: the applied load must reach the required multiple of
	// SWL, with the historical 5% application tolerance.
	percent := pol.requiredPercent(in.TestType, in.LoadPercent)
	requiredKg := swlKg * percent / 100
	if loadKg >= requiredKg*pol.LoadTolerance {
		checks["load_check"] = CheckResult{
			Status: CheckPass,
			Detail: fmt.Sprintf("test load (%.2f kg) meets requirement (%.2f kg)", loadKg, requiredKg),
		}
	} else {
		checks["load_check"] = CheckResult{
			Status: CheckFail,
			Detail: fmt.Sprintf("test load (%.2f kg) below requirement (%.2f kg)", loadKg, requiredKg),
		}
		recs = append(recs, fmt.Sprintf("Ensure test load is at least %.0f%% of SWL", percent))
	}

	// Visual check: noted defects downgrade to conditional.
	if in.DefectsFound != "" {
		checks["visual_check"] = CheckResult{
			Status: CheckConditional,
			Detail: "defects noted: " + truncate(in.DefectsFound, 100),
		}
		recs = append(recs, "Address noted defects before certification")
	} else {
		checks["visual_check"] = CheckResult{
			Status: CheckPass,
			Detail: "no defects found during visual inspection",
		}
	}

	m := in.Measured
	if m != nil && m.PermanentDeformation != nil {
		limit := pol.MaxPermanentDeformation
		if m.MaxPermanentDeformation != nil {
			limit = *m.MaxPermanentDeformation
		}
		if *m.PermanentDeformation <= limit {
			checks["deformation_check"] = CheckResult{
				Status: CheckPass,
				Detail: fmt.Sprintf("permanent deformation (%.3f%%) within limit (%.3f%%)", *m.PermanentDeformation, limit),
			}
		} else {
			checks["deformation_check"] = CheckResult{
				Status: CheckFail,
				Detail: fmt.Sprintf("permanent deformation (%.3f%%) exceeds limit (%.3f%%)", *m.PermanentDeformation, limit),
			}
			recs = append(recs, "Permanent deformation exceeds acceptable limits - equipment may be compromised")
		}
	}

	// Deflection is a soft check: exceeding the limit is conditional
	// rather than failing, provided nothing mandatory failed.
	if m != nil && m.Deflection != nil {
		limit := math.Inf(1)
		if m.MaxDeflection != nil {
			limit = *m.MaxDeflection
		}
		if *m.Deflection <= limit {
			checks["deflection_check"] = CheckResult{
				Status: CheckPass,
				Detail: fmt.Sprintf("deflection (%.3f) within limit (%.3f)", *m.Deflection, limit),
			}
		} else {
			checks["deflection_check"] = CheckResult{
				Status: CheckConditional,
				Detail: fmt.Sprintf("deflection (%.3f) exceeds limit (%.3f)", *m.Deflection, limit),
			}
			recs = append(recs, "Excessive deflection detected - investigate structural integrity")
		}
	}

	if m != nil && m.BrakeTest != nil {
		if *m.BrakeTest {
			checks["brake_check"] = CheckResult{Status: CheckPass, Detail: "brake test passed"}
		} else {
			checks["brake_check"] = CheckResult{Status: CheckFail, Detail: "brake test failed"}
			recs = append(recs, "Brake system requires immediate attention")
		}
	}

	if m != nil && m.IndicatorAccuracy != nil {
		tol := pol.AccuracyTolerance
		if m.AccuracyTolerance != nil {
			tol = *m.AccuracyTolerance
		}
		if *m.IndicatorAccuracy <= tol {
			checks["accuracy_check"] = CheckResult{
				Status: CheckPass,
				Detail: fmt.Sprintf("indicator accuracy (%.3f%%) within tolerance (%.3f%%)", *m.IndicatorAccuracy, tol),
			}
		} else {
			checks["accuracy_check"] = CheckResult{
				Status: CheckFail,
				Detail: fmt.Sprintf("indicator accuracy (%.3f%%) outside tolerance (%.3f%%)", *m.IndicatorAccuracy, tol),
			}
			recs = append(recs, "Load indicator requires calibration")
		}
	}

	result := model.ResultPass
	for _, c := range checks {
		if c.Status == CheckConditional && result == model.ResultPass {
			result = model.ResultConditional
		}
		if c.Status == CheckFail {
			result = model.ResultFail
			break
		}
	}

	return Outcome{Result: result, Checks: checks, Recommendations: recs}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
