package scorer

import (
	"fmt"
	"math"

	"github.com/bbceylan/pinbridge-web-sub000/internal/geo"
	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// Distance decay bounds for separations between the exact radius and the
// maximum distance.
const (
	decayHigh = 95.0
	decayLow  = 5.0
)

// Distance scores geographic proximity. Missing or invalid coordinates on
// either side score 0 with an explicit "no coordinates available"
// explanation. Within exact meters the score is 100; up to maxDistance it
// decays linearly from 95 to 5; beyond that it is 0.
func Distance(original model.OriginalPlace, candidate model.CandidatePlace, exact, maxDistance float64, verbose bool) Factor {
	tr := newTracer(verbose, formatCoords(original.Latitude, original.Longitude), formatCoords(candidate.Latitude, candidate.Longitude))

	va := geo.ValidatePointers(original.Latitude, original.Longitude)
	vb := geo.ValidatePointers(candidate.Latitude, candidate.Longitude)
	details := map[string]any{"coordinates_available": va.IsValid && vb.IsValid}

	if !va.IsValid || !vb.IsValid {
		var errs []string
		for _, e := range va.Errors {
			errs = append(errs, "original "+e)
		}
		for _, e := range vb.Errors {
			errs = append(errs, "candidate "+e)
		}
		details["coordinate_errors"] = errs
		tr.step("coordinates unusable: %v", errs)
		return Factor{Score: 0, Explanation: "no coordinates available", Details: details, Debug: tr.debug()}
	}

	d := geo.Distance(va.Latitude, va.Longitude, vb.Latitude, vb.Longitude)
	band := geo.Classify(d, exact, maxDistance)
	tr.step("haversine distance %.1f m, band %s", d, band)

	score := DistanceScore(d, exact, maxDistance)
	tr.step("distance score %d", score)

	details["distance_meters"] = math.Round(d*10) / 10
	details["band"] = string(band)
	details["precision_original"] = string(va.Precision)
	details["precision_candidate"] = string(vb.Precision)

	return Factor{
		Score:       score,
		Explanation: fmt.Sprintf("places are %s apart (%s)", formatMeters(d), band),
		Details:     details,
		Debug:       tr.debug(),
	}
}

// DistanceScore maps a separation in meters onto the 0-100 scale.
func DistanceScore(d, exact, maxDistance float64) int {
	switch {
	case math.IsNaN(d) || d < 0:
		return 0
	case d <= exact:
		return 100
	case d <= maxDistance:
		span := maxDistance - exact
		if span <= 0 {
			return round(decayHigh)
		}
		return clamp(round(decayHigh-(d-exact)/span*(decayHigh-decayLow)), int(decayLow), int(decayHigh))
	default:
		return 0
	}
}

func formatMeters(d float64) string {
	if d < 1000 {
		return fmt.Sprintf("%.0f m", d)
	}
	return fmt.Sprintf("%.1f km", d/1000)
}

func formatCoords(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g", *lat, *lng)
}
