package model

import "time"

// FactorType identifies one of the four similarity dimensions.
type FactorType string

// Factor types, in the order they appear on every Match.
const (
	FactorName     FactorType = "name"
	FactorAddress  FactorType = "address"
	FactorDistance FactorType = "distance"
	FactorCategory FactorType = "category"
)

// FactorTypes lists every factor type in canonical order.
var FactorTypes = []FactorType{FactorName, FactorAddress, FactorDistance, FactorCategory}

// Level is a coarse high/medium/low classification used for confidence and
// factor reliability.
type Level string

// Levels.
const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Adjustment is a named integer change applied to a score.
type Adjustment struct {
	Name   string `json:"name"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// FactorDebug is the calculation trace of a single factor. It is only
// populated when the query runs in verbose mode.
type FactorDebug struct {
	Original            string       `json:"original"`
	Candidate           string       `json:"candidate"`
	NormalizedOriginal  string       `json:"normalized_original,omitempty"`
	NormalizedCandidate string       `json:"normalized_candidate,omitempty"`
	Steps               []string     `json:"steps"`
	Bonuses             []Adjustment `json:"bonuses,omitempty"`
	Penalties           []Adjustment `json:"penalties,omitempty"`
}

// MatchFactor is one scored dimension of a match.
type MatchFactor struct {
	Type          FactorType     `json:"type"`
	Score         int            `json:"score"`
	Weight        float64        `json:"weight"`
	WeightedScore float64        `json:"weighted_score"`
	Explanation   string         `json:"explanation"`
	Details       map[string]any `json:"details,omitempty"`
	Debug         *FactorDebug   `json:"debug_info,omitempty"`
}

// QualityIndicators describe how trustworthy the raw score is.
type QualityIndicators struct {
	DataCompleteness      int `json:"data_completeness"`
	MatchConsistency      int `json:"match_consistency"`
	GeographicReliability int `json:"geographic_reliability"`
}

// CalibrationInfo records how the raw weighted score became the final score.
type CalibrationInfo struct {
	RawScore        float64           `json:"raw_score"`
	CalibratedScore int               `json:"calibrated_score"`
	Adjustments     []Adjustment      `json:"adjustments"`
	Quality         QualityIndicators `json:"quality_indicators"`
}

// DebugSummary explains a match for review tooling.
type DebugSummary struct {
	Contributions      map[FactorType]int   `json:"factor_contributions"`
	Reliability        map[FactorType]Level `json:"factor_reliability"`
	Issues             []string             `json:"issues"`
	Recommendations    []string             `json:"recommendations"`
	ProcessingDuration time.Duration        `json:"processing_duration"`
}

// Match is a scored pairing of the original place with one candidate.
type Match struct {
	Original        OriginalPlace   `json:"original_place"`
	Candidate       CandidatePlace  `json:"candidate_place"`
	Factors         []MatchFactor   `json:"match_factors"`
	ConfidenceScore int             `json:"confidence_score"`
	ConfidenceLevel Level           `json:"confidence_level"`
	Rank            int             `json:"rank"`
	Calibration     CalibrationInfo `json:"calibration_info"`
	Summary         *DebugSummary   `json:"debug_summary,omitempty"`
}

// Factor returns the factor of the given type, or nil when absent.
func (m *Match) Factor(t FactorType) *MatchFactor {
	for i := range m.Factors {
		if m.Factors[i].Type == t {
			return &m.Factors[i]
		}
	}
	return nil
}

// ResultMetadata summarizes a MatchResult.
type ResultMetadata struct {
	TotalCandidates   int `json:"total_candidates"`
	ValidMatches      int `json:"valid_matches"`
	AverageConfidence int `json:"average_confidence"`
}

// MatchResult is the ranked outcome of a MatchQuery.
type MatchResult struct {
	Query     MatchQuery     `json:"query"`
	Matches   []Match        `json:"matches"`
	BestMatch *Match         `json:"best_match,omitempty"`
	Metadata  ResultMetadata `json:"metadata"`
}
