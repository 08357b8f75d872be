package proximity

import (
	"math"
	"time"
)

// Tier is the severity of a proximity violation; higher is closer.
type Tier int

const (
	Tier1 Tier = 1 // within 20m
	Tier2 Tier = 2 // within 15m
	Tier3 Tier = 3 // within 10m
)

// GraceHoursAfterFirstBooking is how long after the first completed booking
// a customer/provider pair may be near each other without being tracked.
const GraceHoursAfterFirstBooking = 10

// Thresholds in meters, tightest first.
var thresholds = []struct {
	maxMeters float64
	tier      Tier
}{
	{10, Tier3},
	{15, Tier2},
	{20, Tier1},
}

// GetTier maps a distance to a tier. The tightest threshold that contains
// the distance wins. ok is false beyond 20m or for a negative/NaN distance.
func GetTier(distanceMeters float64) (Tier, bool) {
	if math.IsNaN(distanceMeters) || distanceMeters < 0 {
		return 0, false
	}
	for _, t := range thresholds {
		if distanceMeters <= t.maxMeters {
			return t.tier, true
		}
	}
	return 0, false
}

// IsTrackingActive reports whether the grace period after the pair's first
// booking has elapsed. A missing first booking means no tracking.
func IsTrackingActive(firstBooking *time.Time, now time.Time) bool {
	if firstBooking == nil {
		return false
	}
	return !now.Before(firstBooking.Add(GraceHoursAfterFirstBooking * time.Hour))
}
