// Package scorer computes the four match factors, aggregates them into a raw
// confidence score and calibrates it with data-quality indicators.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bbceylan/pinbridge-web-sub000/internal/config"
	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// DefaultWeights returns the default factor weights. Weights sum to 100.
func DefaultWeights() model.Weights {
	return model.Weights{Name: 40, Address: 30, Distance: 20, Category: 10}
}

// DefaultMatcherConfig returns a config.MatcherConfig with sensible defaults.
func DefaultMatcherConfig() config.MatcherConfig {
	w := DefaultWeights()
	return config.MatcherConfig{
		Weights: config.WeightsConfig{
			Name:     w.Name,
			Address:  w.Address,
			Distance: w.Distance,
			Category: w.Category,
		},
		MaxDistanceMeters:      5000,
		ExactDistanceMeters:    50,
		MinConfidenceScore:     30,
		ConsistencyBonusMinRaw: 85,
	}
}

// WeightsFrom converts configured weights to model weights.
func WeightsFrom(c config.WeightsConfig) model.Weights {
	return model.Weights{Name: c.Name, Address: c.Address, Distance: c.Distance, Category: c.Category}
}

// ValidateWeights checks that every weight is a finite positive number.
func ValidateWeights(w model.Weights) error {
	if errs := weightProblems(w); len(errs) > 0 {
		return eris.Errorf("scorer: invalid weights: %s", strings.Join(errs, "; "))
	}
	return nil
}

func weightProblems(w model.Weights) []string {
	var errs []string
	for _, t := range model.FactorTypes {
		v := w.Of(t)
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be a finite value > 0", t))
		}
	}
	return errs
}

// NormalizeWeights rescales weights so they sum to exactly 100. The last
// factor absorbs the floating-point residue. Weights must be valid.
func NormalizeWeights(w model.Weights) model.Weights {
	sum := w.Sum()
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return DefaultWeights()
	}
	out := model.Weights{
		Name:     w.Name / sum * 100,
		Address:  w.Address / sum * 100,
		Distance: w.Distance / sum * 100,
	}
	out.Category = 100 - (out.Name + out.Address + out.Distance)
	return out
}

// ValidateConfig checks that a MatcherConfig is internally consistent.
func ValidateConfig(c config.MatcherConfig) error {
	errs := weightProblems(WeightsFrom(c.Weights))

	if !finite(c.MaxDistanceMeters) || c.MaxDistanceMeters <= 0 {
		errs = append(errs, "max_distance_meters must be > 0")
	}
	if !finite(c.ExactDistanceMeters) || c.ExactDistanceMeters < 0 {
		errs = append(errs, "exact_distance_meters must be >= 0")
	} else if c.ExactDistanceMeters >= c.MaxDistanceMeters {
		errs = append(errs, "exact_distance_meters must be < max_distance_meters")
	}

	// Thresholds.
	if !finite(c.MinConfidenceScore) || c.MinConfidenceScore < 0 || c.MinConfidenceScore > 100 {
		errs = append(errs, "min_confidence_score must be between 0 and 100")
	}
	if !finite(c.ConsistencyBonusMinRaw) || c.ConsistencyBonusMinRaw < 0 || c.ConsistencyBonusMinRaw > 100 {
		errs = append(errs, "consistency_bonus_min_raw must be between 0 and 100")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
