// Package geo validates coordinates and measures great-circle distances
// between places.
package geo

import "math"

// Band is the proximity classification of two places.
type Band string

// Distance bands.
const (
	BandSameLocation Band = "same_location"
	BandNearby       Band = "nearby"
	BandInRange      Band = "in_range"
	BandOutOfRange   Band = "out_of_range"
)

// nearbyShare is the fraction of the match radius counted as nearby.
const nearbyShare = 0.1

// Classify returns the proximity band for a separation in meters.
// Rules:
//   - same_location: meters <= exact
//   - nearby: meters <= exact + 10% of (limit - exact)
//   - in_range: meters <= limit
//   - out_of_range: beyond limit, or not a finite distance
func Classify(meters, exact, limit float64) Band {
	if math.IsNaN(meters) || meters < 0 {
		return BandOutOfRange
	}
	if meters <= exact {
		return BandSameLocation
	}
	if meters <= exact+(limit-exact)*nearbyShare {
		return BandNearby
	}
	if meters <= limit {
		return BandInRange
	}
	return BandOutOfRange
}
