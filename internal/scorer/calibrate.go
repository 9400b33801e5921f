package scorer

import (
	"fmt"
	"math"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// Calibration thresholds and rates.
const (
	lowCompletenessThreshold = 20
	lowCompletenessRate      = 0.15

	highVarianceThreshold = 50
	highVarianceRate      = 0.1
	lowVarianceThreshold  = 3
	lowVarianceRate       = 0.1

	lowGeoThreshold = 10
	lowGeoRate      = 0.2

	nearPerfectRaw          = 99
	nearPerfectCompleteness = 95

	thinDataRaw          = 95
	thinDataCompleteness = 30
	thinDataRate         = 0.05
)

// Adjustment names.
const (
	AdjustLowCompleteness  = "low_data_completeness"
	AdjustHighVariance     = "high_factor_variance"
	AdjustConsistencyBonus = "consistent_strong_match"
	AdjustLowGeo           = "low_geographic_reliability"
	AdjustNearPerfect      = "near_perfect_match"
	AdjustThinData         = "high_score_thin_data"
)

// Calibrate applies the bounded quality adjustments to a raw score and
// clamps the result to [0, 100]. Only non-zero adjustments are recorded.
// consistencyBonusMinRaw is the raw score a very consistent match must
// exceed to earn the consistency bonus.
func Calibrate(raw float64, factors []model.MatchFactor, q model.QualityIndicators, consistencyBonusMinRaw float64) model.CalibrationInfo {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		raw = 0
	}
	info := model.CalibrationInfo{RawScore: raw, Adjustments: []model.Adjustment{}, Quality: q}

	add := func(name string, delta int, reason string) {
		if delta != 0 {
			info.Adjustments = append(info.Adjustments, model.Adjustment{Name: name, Delta: delta, Reason: reason})
		}
	}

	completeness := float64(q.DataCompleteness)
	if completeness < lowCompletenessThreshold {
		add(AdjustLowCompleteness, -round((lowCompletenessThreshold-completeness)*lowCompletenessRate),
			fmt.Sprintf("data completeness %d%% is below %d%%", q.DataCompleteness, lowCompletenessThreshold))
	}

	sd := ScoreStdDev(factors)
	switch {
	case sd > highVarianceThreshold:
		add(AdjustHighVariance, -round((sd-highVarianceThreshold)*highVarianceRate),
			fmt.Sprintf("factor scores disagree (std dev %.1f)", sd))
	case sd < lowVarianceThreshold && raw > consistencyBonusMinRaw:
		add(AdjustConsistencyBonus, round((lowVarianceThreshold-sd)*lowVarianceRate),
			fmt.Sprintf("factor scores agree closely (std dev %.1f) on a strong match", sd))
	}

	reliability := float64(q.GeographicReliability)
	if reliability < lowGeoThreshold {
		add(AdjustLowGeo, -round((lowGeoThreshold-reliability)*lowGeoRate),
			fmt.Sprintf("geographic reliability %d%% is below %d%%", q.GeographicReliability, lowGeoThreshold))
	}

	if raw >= nearPerfectRaw && completeness >= nearPerfectCompleteness {
		add(AdjustNearPerfect, 1, "near-perfect score on complete data")
	}

	if raw >= thinDataRaw && completeness < thinDataCompleteness {
		add(AdjustThinData, -round((thinDataRaw-completeness)*thinDataRate),
			fmt.Sprintf("score %.0f rests on %d%% complete data", raw, q.DataCompleteness))
	}

	total := raw
	for _, a := range info.Adjustments {
		total += float64(a.Delta)
	}
	info.CalibratedScore = clamp(round(total), 0, 100)
	return info
}

// AdjustmentMagnitude returns the sum of the absolute adjustment deltas.
func AdjustmentMagnitude(info model.CalibrationInfo) int {
	sum := 0
	for _, a := range info.Adjustments {
		if a.Delta < 0 {
			sum -= a.Delta
		} else {
			sum += a.Delta
		}
	}
	return sum
}
