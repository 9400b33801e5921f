// Package match runs the place matching pipeline: it scores every candidate
// against the original place, calibrates the scores, ranks the survivors and
// optionally explains each match.
package match

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bbceylan/pinbridge-web-sub000/internal/address"
	"github.com/bbceylan/pinbridge-web-sub000/internal/category"
	"github.com/bbceylan/pinbridge-web-sub000/internal/config"
	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
	"github.com/bbceylan/pinbridge-web-sub000/internal/normalize"
	"github.com/bbceylan/pinbridge-web-sub000/internal/scorer"
	"github.com/bbceylan/pinbridge-web-sub000/internal/tables"
)

// Engine scores and ranks candidate places. It is immutable after New and
// safe for concurrent use.
type Engine struct {
	scorer   *scorer.Scorer
	defaults settings
	exact    float64
	bonusRaw float64
	now      func() time.Time
}

// settings are the effective options of one query.
type settings struct {
	weights       model.Weights
	maxDistance   float64
	minConfidence float64
	strict        bool
	verbose       bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to measure processing duration in debug
// summaries. Scores never depend on it.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New validates the matcher configuration and builds an Engine. A nil
// dictionary selects the embedded default tables.
func New(cfg config.MatcherConfig, dict *tables.Dictionary, opts ...Option) (*Engine, error) {
	if err := scorer.ValidateConfig(cfg); err != nil {
		return nil, eris.Wrap(err, "match: invalid matcher config")
	}
	if dict == nil {
		var err error
		if dict, err = tables.Default(); err != nil {
			return nil, eris.Wrap(err, "match: load default tables")
		}
	} else if err := dict.Validate(); err != nil {
		return nil, eris.Wrap(err, "match: invalid tables")
	}

	e := &Engine{
		scorer: scorer.New(normalize.New(dict), address.New(dict), category.New(dict.Categories)),
		defaults: settings{
			weights:       scorer.NormalizeWeights(scorer.WeightsFrom(cfg.Weights)),
			maxDistance:   cfg.MaxDistanceMeters,
			minConfidence: cfg.MinConfidenceScore,
			strict:        cfg.StrictMode,
			verbose:       cfg.Verbose,
		},
		exact:    cfg.ExactDistanceMeters,
		bonusRaw: cfg.ConsistencyBonusMinRaw,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Weights returns the engine's normalized default weights.
func (e *Engine) Weights() model.Weights {
	return e.defaults.weights
}

// Match scores every candidate of the query against its original place and
// returns the ranked result. Candidate data problems lower scores and are
// never errors; only invalid per-query options fail.
func (e *Engine) Match(q model.MatchQuery) (*model.MatchResult, error) {
	s, err := e.resolve(q.Options)
	if err != nil {
		return nil, err
	}

	scored := make([]model.Match, 0, len(q.Candidates))
	for _, c := range q.Candidates {
		scored = append(scored, e.score(q.Original, c, s))
	}

	matches := rank(scored, s)
	result := &model.MatchResult{
		Query:    q,
		Matches:  matches,
		Metadata: metadata(len(q.Candidates), matches),
	}
	if len(matches) > 0 {
		result.BestMatch = &result.Matches[0]
	}

	zap.L().Debug("match: query scored",
		zap.String("original", q.Original.Name),
		zap.Int("candidates", result.Metadata.TotalCandidates),
		zap.Int("matches", result.Metadata.ValidMatches),
		zap.Int("average_confidence", result.Metadata.AverageConfidence),
	)
	return result, nil
}

// MatchOne scores a single pair. The confidence filter and strict mode are
// not applied; the returned match has rank 1.
func (e *Engine) MatchOne(original model.OriginalPlace, candidate model.CandidatePlace, opts *model.MatchOptions) (model.Match, error) {
	s, err := e.resolve(opts)
	if err != nil {
		return model.Match{}, err
	}
	m := e.score(original, candidate, s)
	m.Rank = 1
	return m, nil
}

// score runs the factor calculators, aggregation and calibration for one
// candidate. The debug summary is attached only for verbose queries.
func (e *Engine) score(original model.OriginalPlace, candidate model.CandidatePlace, s settings) model.Match {
	start := e.now()

	name := e.scorer.Name(original.Name, candidate.Name, s.verbose)
	addr := e.scorer.Address(original.Address, candidate.Address, s.verbose)
	dist := scorer.Distance(original, candidate, e.exact, s.maxDistance, s.verbose)
	cat := e.scorer.Category(original.Category(), candidate.Category, s.verbose)

	factors := []model.MatchFactor{
		scorer.Weigh(model.FactorName, name, s.weights.Name),
		scorer.Weigh(model.FactorAddress, addr, s.weights.Address),
		scorer.Weigh(model.FactorDistance, dist, s.weights.Distance),
		scorer.Weigh(model.FactorCategory, cat, s.weights.Category),
	}

	raw := scorer.Aggregate(factors)
	quality := scorer.Quality(original, candidate, factors)
	cal := scorer.Calibrate(raw, factors, quality, e.bonusRaw)

	m := model.Match{
		Original:        original,
		Candidate:       candidate,
		Factors:         factors,
		ConfidenceScore: cal.CalibratedScore,
		ConfidenceLevel: Level(cal.CalibratedScore),
		Calibration:     cal,
	}
	if s.verbose {
		m.Summary = Explain(&m, e.now().Sub(start))
	}
	return m
}

// resolve merges per-query options over the engine defaults and validates
// the result.
func (e *Engine) resolve(o *model.MatchOptions) (settings, error) {
	s := e.defaults
	if o == nil {
		return s, nil
	}

	var errs []string
	if o.Weights != nil {
		if err := scorer.ValidateWeights(*o.Weights); err != nil {
			errs = append(errs, err.Error())
		} else {
			s.weights = scorer.NormalizeWeights(*o.Weights)
		}
	}
	if o.MaxDistance != nil {
		d := *o.MaxDistance
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= e.exact {
			errs = append(errs, fmt.Sprintf("max_distance %g must be a finite value > %g", d, e.exact))
		} else {
			s.maxDistance = d
		}
	}
	if o.MinConfidenceScore != nil {
		v := *o.MinConfidenceScore
		if math.IsNaN(v) || v < 0 || v > 100 {
			errs = append(errs, fmt.Sprintf("min_confidence_score %g must be between 0 and 100", v))
		} else {
			s.minConfidence = v
		}
	}
	if o.StrictMode != nil {
		s.strict = *o.StrictMode
	}
	if o.Verbose != nil {
		s.verbose = *o.Verbose
	}

	if len(errs) > 0 {
		return settings{}, eris.Errorf("match: invalid options: %s", strings.Join(errs, "; "))
	}
	return s, nil
}
