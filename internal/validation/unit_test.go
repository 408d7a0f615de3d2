package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToKilograms(t *testing.T) {
	testCases := []struct {
		name     string
		value    float64
		unit     string
		expected float64
		wantErr  bool
	}{
		{name: "tons", value: 10, unit: "ton", expected: 10000},
		{name: "tonnes alias", value: 2.5, unit: "tonne", expected: 2500},
		{name: "kilograms", value: 12500, unit: "kg", expected: 12500},
		{name: "pounds", value: 1000, unit: "lb", expected: 453.59237},
		{name: "pounds alias", value: 1, unit: "lbs", expected: 0.45359237},
		{name: "empty unit defaults to tons", value: 10, unit: "", expected: 10000},
		{name: "case insensitive", value: 1, unit: "Ton", expected: 1000},
		{name: "unknown unit", value: 1, unit: "stone", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToKilograms(tc.value, tc.unit)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestConvert(t *testing.T) {
	got, err := Convert(10, "ton", "kg")
	assert.NoError(t, err)
	assert.InDelta(t, 10000, got, 1e-9)

	got, err = Convert(12500, "kg", "ton")
	assert.NoError(t, err)
	assert.InDelta(t, 12.5, got, 1e-9)

	_, err = Convert(1, "stone", "kg")
	assert.Error(t, err)
}
