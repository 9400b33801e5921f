package match

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/bbceylan/pinbridge-web-sub000/internal/category"
	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// Explainer thresholds.
const (
	lowCompleteness    = 50
	lowConsistency     = 50
	lowFactorScore     = 50
	heavyFactorWeight  = 30
	largeAdjustmentAbs = 5
)

// reliabilityBands are the per-factor score thresholds for high and medium
// reliability.
var reliabilityBands = map[model.FactorType][2]int{
	model.FactorName:     {80, 50},
	model.FactorAddress:  {80, 50},
	model.FactorDistance: {90, 50},
	model.FactorCategory: {100, 75},
}

// Explain builds the debug summary of a scored match.
func Explain(m *model.Match, elapsed time.Duration) *model.DebugSummary {
	sum := &model.DebugSummary{
		Contributions:      Contributions(m.Factors),
		Reliability:        make(map[model.FactorType]model.Level, len(m.Factors)),
		Issues:             []string{},
		Recommendations:    []string{},
		ProcessingDuration: elapsed,
	}
	for i := range m.Factors {
		sum.Reliability[m.Factors[i].Type] = reliability(&m.Factors[i])
	}

	issue := func(text, rec string) {
		sum.Issues = append(sum.Issues, text)
		if !slices.Contains(sum.Recommendations, rec) {
			sum.Recommendations = append(sum.Recommendations, rec)
		}
	}

	q := m.Calibration.Quality
	if q.DataCompleteness < lowCompleteness {
		issue(fmt.Sprintf("low data completeness (%d%%)", q.DataCompleteness),
			"add the missing address, coordinates or category to improve the comparison")
	}
	if q.MatchConsistency < lowConsistency {
		issue(fmt.Sprintf("factor scores disagree (consistency %d%%)", q.MatchConsistency),
			"review this match manually before accepting it")
	}
	if f := m.Factor(model.FactorDistance); f != nil && !coordinatesAvailable(f) {
		issue("coordinates missing or invalid on one or both places",
			"geocode the saved place so distance can be compared")
	}
	for _, f := range m.Factors {
		if f.Score < lowFactorScore && f.Weight >= heavyFactorWeight {
			issue(fmt.Sprintf("low %s score (%d) on a heavily weighted factor (weight %.0f)", f.Type, f.Score, f.Weight),
				fmt.Sprintf("verify the %s of the candidate", f.Type))
		}
	}
	for _, a := range m.Calibration.Adjustments {
		if a.Delta >= largeAdjustmentAbs || a.Delta <= -largeAdjustmentAbs {
			issue(fmt.Sprintf("calibration adjusted the score by %+d: %s", a.Delta, a.Reason),
				"check the data quality of both records")
		}
	}
	return sum
}

// Contributions returns each factor's integer share of the raw score. Shares
// are apportioned by largest remainder so they sum to exactly 100. With a
// zero raw score the factor weights are apportioned instead.
func Contributions(factors []model.MatchFactor) map[model.FactorType]int {
	out := make(map[model.FactorType]int, len(factors))
	if len(factors) == 0 {
		return out
	}

	values := make([]float64, len(factors))
	var total float64
	for i, f := range factors {
		values[i] = f.WeightedScore
		total += f.WeightedScore
	}
	if total <= 0 {
		total = 0
		for i, f := range factors {
			values[i] = f.Weight
			total += f.Weight
		}
	}
	if total <= 0 {
		for i := range values {
			values[i] = 1
		}
		total = float64(len(values))
	}

	type share struct {
		idx  int
		frac float64
	}
	shares := make([]share, len(values))
	assigned := 0
	for i, v := range values {
		exact := v / total * 100
		floor := math.Floor(exact)
		out[factors[i].Type] = int(floor)
		assigned += int(floor)
		shares[i] = share{idx: i, frac: exact - floor}
	}

	slices.SortStableFunc(shares, func(a, b share) int {
		switch {
		case a.frac > b.frac:
			return -1
		case a.frac < b.frac:
			return 1
		}
		return 0
	})
	for i := 0; assigned < 100; i = (i + 1) % len(shares) {
		out[factors[shares[i].idx].Type]++
		assigned++
	}
	return out
}

// reliability classifies how much a factor's score can be trusted. Factors
// computed from missing data are always low.
func reliability(f *model.MatchFactor) model.Level {
	switch f.Type {
	case model.FactorDistance:
		if !coordinatesAvailable(f) {
			return model.LevelLow
		}
	case model.FactorCategory:
		rel, _ := f.Details["relation"].(string)
		if rel == string(category.RelationBothAbsent) || rel == string(category.RelationOneAbsent) {
			return model.LevelLow
		}
	case model.FactorName, model.FactorAddress:
		a, _ := f.Details["normalized_original"].(string)
		b, _ := f.Details["normalized_candidate"].(string)
		if a == "" || b == "" {
			return model.LevelLow
		}
	}

	band := reliabilityBands[f.Type]
	switch {
	case f.Score >= band[0]:
		return model.LevelHigh
	case f.Score >= band[1]:
		return model.LevelMedium
	default:
		return model.LevelLow
	}
}
