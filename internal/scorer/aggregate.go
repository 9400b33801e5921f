package scorer

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/bbceylan/pinbridge-web-sub000/internal/geo"
	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// Completeness field weights and the share each record contributes.
const (
	nameFieldWeight     = 30
	addressFieldWeight  = 30
	coordsFieldWeight   = 25
	categoryFieldWeight = 15

	originalShare  = 0.6
	candidateShare = 0.4
)

// Geographic reliability is scaled into [geoReliabilityMin, geoReliabilityMax]
// when both places carry usable coordinates.
const (
	geoReliabilityMin = 30
	geoReliabilityMax = 95
)

// Weigh turns an unweighted factor into a MatchFactor using the already
// normalized weight for its type.
func Weigh(t model.FactorType, f Factor, weight float64) model.MatchFactor {
	return model.MatchFactor{
		Type:          t,
		Score:         f.Score,
		Weight:        weight,
		WeightedScore: float64(f.Score) * weight / 100,
		Explanation:   f.Explanation,
		Details:       f.Details,
		Debug:         f.Debug,
	}
}

// Aggregate returns the raw confidence score: the sum of the factors'
// weighted scores.
func Aggregate(factors []model.MatchFactor) float64 {
	var raw float64
	for _, f := range factors {
		raw += f.WeightedScore
	}
	return raw
}

// Quality computes the data-quality indicators for one pairing.
func Quality(original model.OriginalPlace, candidate model.CandidatePlace, factors []model.MatchFactor) model.QualityIndicators {
	origCoords := geo.ValidatePointers(original.Latitude, original.Longitude).IsValid
	candCoords := geo.ValidatePointers(candidate.Latitude, candidate.Longitude).IsValid

	orig := fieldCompleteness(original.Name, original.Address, original.Category(), origCoords)
	cand := fieldCompleteness(candidate.Name, candidate.Address, candidate.Category, candCoords)

	q := model.QualityIndicators{
		DataCompleteness: clamp(round(orig*originalShare+cand*candidateShare), 0, 100),
		MatchConsistency: consistency(factors),
	}
	if origCoords && candCoords {
		dist := 0
		for _, f := range factors {
			if f.Type == model.FactorDistance {
				dist = f.Score
			}
		}
		q.GeographicReliability = clamp(round(geoReliabilityMin+float64(geoReliabilityMax-geoReliabilityMin)*float64(dist)/100), 0, 100)
	}
	return q
}

func fieldCompleteness(name, addr, cat string, coords bool) float64 {
	var c float64
	if strings.TrimSpace(name) != "" {
		c += nameFieldWeight
	}
	if strings.TrimSpace(addr) != "" {
		c += addressFieldWeight
	}
	if coords {
		c += coordsFieldWeight
	}
	if strings.TrimSpace(cat) != "" {
		c += categoryFieldWeight
	}
	return c
}

// ScoreStdDev returns the population standard deviation of the factor scores.
func ScoreStdDev(factors []model.MatchFactor) float64 {
	if len(factors) == 0 {
		return 0
	}
	scores := make([]float64, len(factors))
	for i, f := range factors {
		scores[i] = float64(f.Score)
	}
	sd := stat.PopStdDev(scores, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

func consistency(factors []model.MatchFactor) int {
	return clamp(round(100-2*ScoreStdDev(factors)), 0, 100)
}
