package validation

import (
	"strings"

	"certitrack-backend/internal/apperr"
)

// Loads arrive in whatever unit the inspector recorded (ton, kg, lb).
// All comparisons happen in kilograms.
const (
	kgPerTon = 1000.0
	kgPerLb  = 0.45359237
)

// Convert re-expresses value from one unit in another.
func Convert(value float64, fromUnit, toUnit string) (float64, error) {
	kg, err := ToKilograms(value, fromUnit)
	if err != nil {
		return 0, err
	}
	per, err := ToKilograms(1, toUnit)
	if err != nil {
		return 0, err
	}
	return kg / per, nil
}

// ToKilograms converts value from the given unit to kilograms. The
// empty unit defaults to tons, matching how field submissions have
// historically arrived.
func ToKilograms(value float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "t", "ton", "tons", "tonne", "tonnes":
		return value * kgPerTon, nil
	case "kg", "kgs", "kilogram", "kilograms":
		return value, nil
	case "lb", "lbs", "pound", "pounds":
		return value * kgPerLb, nil
	default:
		return 0, apperr.Validationf("unknown load unit %q", unit)
	}
}
