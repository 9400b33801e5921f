package scorer

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/bbceylan/pinbridge-web-sub000/internal/address"
	"github.com/bbceylan/pinbridge-web-sub000/internal/category"
	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
	"github.com/bbceylan/pinbridge-web-sub000/internal/normalize"
)

// Factor is the unweighted result of one factor calculator.
type Factor struct {
	Score       int
	Explanation string
	Details     map[string]any
	Debug       *model.FactorDebug
}

// Scorer bundles the normalizer, address extractor and category mapper the
// factor calculators depend on. It is immutable and safe for concurrent use.
type Scorer struct {
	norm      *normalize.Normalizer
	extractor *address.Extractor
	mapper    *category.Mapper
}

// New creates a Scorer.
func New(norm *normalize.Normalizer, extractor *address.Extractor, mapper *category.Mapper) *Scorer {
	return &Scorer{norm: norm, extractor: extractor, mapper: mapper}
}

// tracer collects calculation steps for verbose queries. A nil tracer
// ignores every call, so calculators trace unconditionally.
type tracer struct {
	d *model.FactorDebug
}

func newTracer(verbose bool, original, candidate string) *tracer {
	if !verbose {
		return nil
	}
	return &tracer{d: &model.FactorDebug{Original: original, Candidate: candidate, Steps: []string{}}}
}

func (t *tracer) normalized(a, b string) {
	if t == nil {
		return
	}
	t.d.NormalizedOriginal = a
	t.d.NormalizedCandidate = b
}

func (t *tracer) step(format string, args ...any) {
	if t == nil {
		return
	}
	t.d.Steps = append(t.d.Steps, fmt.Sprintf(format, args...))
}

func (t *tracer) bonus(name string, delta int, reason string) {
	if t == nil || delta == 0 {
		return
	}
	t.d.Bonuses = append(t.d.Bonuses, model.Adjustment{Name: name, Delta: delta, Reason: reason})
}

func (t *tracer) penalty(name string, delta int, reason string) {
	if t == nil || delta == 0 {
		return
	}
	t.d.Penalties = append(t.d.Penalties, model.Adjustment{Name: name, Delta: delta, Reason: reason})
}

func (t *tracer) debug() *model.FactorDebug {
	if t == nil {
		return nil
	}
	return t.d
}

// similarity returns the Levenshtein similarity of two strings as a
// percentage of the longer string's rune length, and the edit distance.
func similarity(a, b string) (float64, int) {
	if a == b {
		return 100, 0
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 100, 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-d) / float64(maxLen) * 100, d
}

// round rounds half away from zero and maps NaN to 0.
func round(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(f))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func explainPercent(prefix string, score int, suffix string) string {
	return fmt.Sprintf("%s %d%% %s", prefix, score, suffix)
}
