package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

func factorSet(scores [4]int, weights [4]float64) []model.MatchFactor {
	types := []model.FactorType{model.FactorName, model.FactorAddress, model.FactorDistance, model.FactorCategory}
	out := make([]model.MatchFactor, 4)
	for i, t := range types {
		out[i] = model.MatchFactor{
			Type:          t,
			Score:         scores[i],
			Weight:        weights[i],
			WeightedScore: float64(scores[i]) * weights[i] / 100,
			Details: map[string]any{
				"normalized_original":   "x",
				"normalized_candidate":  "x",
				"coordinates_available": true,
				"relation":              "equal",
			},
		}
	}
	return out
}

func sumShares(c map[model.FactorType]int) int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

func TestContributions(t *testing.T) {
	weights := [4]float64{40, 30, 20, 10}

	tests := []struct {
		name   string
		scores [4]int
		want   map[model.FactorType]int
	}{
		{
			name:   "all perfect follows weights",
			scores: [4]int{100, 100, 100, 100},
			want:   map[model.FactorType]int{model.FactorName: 40, model.FactorAddress: 30, model.FactorDistance: 20, model.FactorCategory: 10},
		},
		{
			name:   "zero raw falls back to weights",
			scores: [4]int{0, 0, 0, 0},
			want:   map[model.FactorType]int{model.FactorName: 40, model.FactorAddress: 30, model.FactorDistance: 20, model.FactorCategory: 10},
		},
		{
			name:   "only name scored",
			scores: [4]int{80, 0, 0, 0},
			want:   map[model.FactorType]int{model.FactorName: 100, model.FactorAddress: 0, model.FactorDistance: 0, model.FactorCategory: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contributions(factorSet(tt.scores, weights)))
		})
	}
}

func TestContributions_AlwaysSumTo100(t *testing.T) {
	weights := [4]float64{100.0 / 3, 100.0 / 3, 100.0 / 6, 100.0 / 6}
	for _, scores := range [][4]int{
		{33, 33, 33, 1},
		{97, 13, 51, 7},
		{1, 1, 1, 1},
		{100, 99, 98, 97},
	} {
		assert.Equal(t, 100, sumShares(Contributions(factorSet(scores, weights))), "%v", scores)
	}
	assert.Empty(t, Contributions(nil))
}

func TestReliability(t *testing.T) {
	fs := factorSet([4]int{85, 60, 40, 100}, [4]float64{40, 30, 20, 10})
	assert.Equal(t, model.LevelHigh, reliability(&fs[0]))
	assert.Equal(t, model.LevelMedium, reliability(&fs[1]))
	assert.Equal(t, model.LevelLow, reliability(&fs[2]))
	assert.Equal(t, model.LevelHigh, reliability(&fs[3]))

	fs[2].Score = 100
	fs[2].Details["coordinates_available"] = false
	assert.Equal(t, model.LevelLow, reliability(&fs[2]))

	fs[3].Details["relation"] = "both_absent"
	assert.Equal(t, model.LevelLow, reliability(&fs[3]))

	fs[0].Details["normalized_candidate"] = ""
	assert.Equal(t, model.LevelLow, reliability(&fs[0]))
}

func TestExplain(t *testing.T) {
	m := &model.Match{
		Factors: factorSet([4]int{30, 90, 0, 100}, [4]float64{40, 30, 20, 10}),
		Calibration: model.CalibrationInfo{
			Quality: model.QualityIndicators{DataCompleteness: 40, MatchConsistency: 20, GeographicReliability: 0},
			Adjustments: []model.Adjustment{
				{Name: "low_completeness", Delta: -8, Reason: "data completeness below 60%"},
				{Name: "near_perfect_match", Delta: 2, Reason: "all factors agree"},
			},
		},
	}
	m.Factors[2].Details["coordinates_available"] = false

	sum := Explain(m, 3*time.Millisecond)
	require.NotNil(t, sum)
	assert.Equal(t, 3*time.Millisecond, sum.ProcessingDuration)
	assert.Equal(t, 100, sumShares(sum.Contributions))
	assert.Len(t, sum.Reliability, 4)

	// completeness, consistency, missing geo, weak name, large adjustment
	assert.Len(t, sum.Issues, 5)
	assert.Contains(t, sum.Issues[3], "low name score")
	assert.Contains(t, sum.Issues[4], "-8")
	assert.Len(t, sum.Recommendations, 5)
}

func TestExplain_CleanMatch(t *testing.T) {
	m := &model.Match{
		Factors: factorSet([4]int{100, 100, 100, 100}, [4]float64{40, 30, 20, 10}),
		Calibration: model.CalibrationInfo{
			Quality: model.QualityIndicators{DataCompleteness: 100, MatchConsistency: 100, GeographicReliability: 95},
		},
	}
	sum := Explain(m, 0)
	assert.Empty(t, sum.Issues)
	assert.Empty(t, sum.Recommendations)
	for _, lvl := range sum.Reliability {
		assert.Equal(t, model.LevelHigh, lvl)
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, model.LevelHigh, Level(100))
	assert.Equal(t, model.LevelHigh, Level(90))
	assert.Equal(t, model.LevelMedium, Level(89))
	assert.Equal(t, model.LevelMedium, Level(70))
	assert.Equal(t, model.LevelLow, Level(69))
	assert.Equal(t, model.LevelLow, Level(0))
}

func TestRank(t *testing.T) {
	mk := func(id string, score int) model.Match {
		return model.Match{
			Candidate:       model.CandidatePlace{ID: id},
			ConfidenceScore: score,
			Factors:         factorSet([4]int{score, score, score, score}, [4]float64{40, 30, 20, 10}),
		}
	}
	scored := []model.Match{mk("a", 50), mk("b", 80), mk("c", 20), mk("d", 80), mk("e", 45)}

	got := rank(scored, settings{minConfidence: 30})
	require.Len(t, got, 4)
	ids := make([]string, len(got))
	for i, m := range got {
		ids[i] = m.Candidate.ID
		assert.Equal(t, i+1, m.Rank)
	}
	assert.Equal(t, []string{"b", "d", "a", "e"}, ids)

	strict := rank(scored, settings{minConfidence: 30, strict: true})
	require.Len(t, strict, 3)
	assert.Equal(t, "a", strict[2].Candidate.ID)
}

func TestMetadata(t *testing.T) {
	assert.Equal(t, model.ResultMetadata{TotalCandidates: 3}, metadata(3, nil))

	md := metadata(4, []model.Match{{ConfidenceScore: 90}, {ConfidenceScore: 71}})
	assert.Equal(t, 4, md.TotalCandidates)
	assert.Equal(t, 2, md.ValidMatches)
	assert.Equal(t, 81, md.AverageConfidence)
}
