package match

import (
	"cmp"
	"math"
	"slices"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// Confidence level boundaries on the calibrated score.
const (
	highConfidence   = 90
	mediumConfidence = 70
)

// Strict mode drops candidates whose name factor falls below this score.
const strictMinNameScore = 50

// Level classifies a calibrated confidence score.
func Level(score int) model.Level {
	switch {
	case score >= highConfidence:
		return model.LevelHigh
	case score >= mediumConfidence:
		return model.LevelMedium
	default:
		return model.LevelLow
	}
}

// rank drops matches below the confidence threshold (and, in strict mode,
// implausible ones), sorts the rest by descending confidence and assigns
// ranks from 1. Equal scores keep their original candidate order.
func rank(scored []model.Match, s settings) []model.Match {
	kept := make([]model.Match, 0, len(scored))
	for _, m := range scored {
		if float64(m.ConfidenceScore) < s.minConfidence {
			continue
		}
		if s.strict && !plausible(m) {
			continue
		}
		kept = append(kept, m)
	}

	slices.SortStableFunc(kept, func(a, b model.Match) int {
		return cmp.Compare(b.ConfidenceScore, a.ConfidenceScore)
	})
	for i := range kept {
		kept[i].Rank = i + 1
	}
	return kept
}

// plausible reports whether a match survives strict mode: the names must be
// reasonably similar and, when both places are located, they must lie within
// the maximum distance.
func plausible(m model.Match) bool {
	if f := m.Factor(model.FactorName); f != nil && f.Score < strictMinNameScore {
		return false
	}
	if f := m.Factor(model.FactorDistance); f != nil && coordinatesAvailable(f) && f.Score == 0 {
		return false
	}
	return true
}

func coordinatesAvailable(f *model.MatchFactor) bool {
	ok, _ := f.Details["coordinates_available"].(bool)
	return ok
}

func metadata(total int, matches []model.Match) model.ResultMetadata {
	md := model.ResultMetadata{TotalCandidates: total, ValidMatches: len(matches)}
	if len(matches) == 0 {
		return md
	}
	sum := 0
	for _, m := range matches {
		sum += m.ConfidenceScore
	}
	md.AverageConfidence = int(math.Round(float64(sum) / float64(len(matches))))
	return md
}
