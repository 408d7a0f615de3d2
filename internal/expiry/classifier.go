// Package expiry buckets certificate expiry dates into the four tiers
// used for UI coloring and for deciding when a certificate stops being
// valid. Alerting thresholds are a separate policy (config.Alerts).
package expiry

import (
	"math"
	"time"
)

// Tier is the urgency bucket for an approaching expiry date.
type Tier string

const (
	TierExpired  Tier = "expired"
	TierCritical Tier = "critical"
	TierWarning  Tier = "warning"
	TierOK       Tier = "ok"
)

const (
	criticalDays = 7
	warningDays  = 30
)

// DaysUntil returns the number of days from now until expiry, rounded
// up so that any remaining fraction of a day still counts as a full
// day. Negative when the date has passed.
func DaysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Classify buckets an expiry date relative to now. Total over all
// dates: <0 days expired, 0-7 critical, 8-30 warning, >30 ok.
func Classify(expiry, now time.Time) Tier {
	return ClassifyDays(DaysUntil(expiry, now))
}

// ClassifyDays buckets a precomputed day count.
func ClassifyDays(days int) Tier {
	switch {
	case days < 0:
		return TierExpired
	case days <= criticalDays:
		return TierCritical
	case days <= warningDays:
		return TierWarning
	default:
		return TierOK
	}
}
