// Package model defines the records exchanged with the place matching engine.
package model

import "strings"

// OriginalPlace is the user's saved place record.
type OriginalPlace struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Category returns the first non-empty tag, or "" when the place has none.
func (p OriginalPlace) Category() string {
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

// CandidatePlace is a record fetched from an external mapping provider and
// already converted to the common shape.
type CandidatePlace struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Category  string   `json:"category,omitempty"`
	Source    string   `json:"source,omitempty"`
}

// Weights holds the relative importance of each match factor. Values need not
// sum to 100; the engine renormalizes them before use.
type Weights struct {
	Name     float64 `json:"name" yaml:"name"`
	Address  float64 `json:"address" yaml:"address"`
	Distance float64 `json:"distance" yaml:"distance"`
	Category float64 `json:"category" yaml:"category"`
}

// Of returns the weight for the given factor type.
func (w Weights) Of(t FactorType) float64 {
	switch t {
	case FactorName:
		return w.Name
	case FactorAddress:
		return w.Address
	case FactorDistance:
		return w.Distance
	case FactorCategory:
		return w.Category
	}
	return 0
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Name + w.Address + w.Distance + w.Category
}

// MatchOptions overrides engine defaults for a single query. Nil fields
// inherit the engine configuration.
type MatchOptions struct {
	Weights            *Weights `json:"weights,omitempty"`
	MaxDistance        *float64 `json:"max_distance,omitempty"`
	MinConfidenceScore *float64 `json:"min_confidence_score,omitempty"`
	StrictMode         *bool    `json:"strict_mode,omitempty"`
	Verbose            *bool    `json:"verbose,omitempty"`
}

// MatchQuery is one original place and the candidates to rank against it.
type MatchQuery struct {
	Original   OriginalPlace    `json:"original_place"`
	Candidates []CandidatePlace `json:"candidate_places"`
	Options    *MatchOptions    `json:"options,omitempty"`
}
