package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, 1, DaysUntil(now.Add(time.Hour), now), "a fraction of a day counts as a full day")
	assert.Equal(t, 5, DaysUntil(now.AddDate(0, 0, 5), now))
	assert.Equal(t, -1, DaysUntil(now.Add(-25*time.Hour), now))
}

func TestClassifyDays(t *testing.T) {
	testCases := []struct {
		days     int
		expected Tier
	}{
		{days: -30, expected: TierExpired},
		{days: -1, expected: TierExpired},
		{days: 0, expected: TierCritical},
		{days: 5, expected: TierCritical},
		{days: 7, expected: TierCritical},
		{days: 8, expected: TierWarning},
		{days: 14, expected: TierWarning},
		{days: 30, expected: TierWarning},
		{days: 31, expected: TierOK},
		{days: 365, expected: TierOK},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ClassifyDays(tc.days), "days=%d", tc.days)
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, TierExpired, Classify(now.AddDate(0, 0, -2), now))
	assert.Equal(t, TierCritical, Classify(now.AddDate(0, 0, 5), now))
	assert.Equal(t, TierWarning, Classify(now.AddDate(0, 0, 20), now))
	assert.Equal(t, TierOK, Classify(now.AddDate(0, 1, 0), now))
}
