// Package category maps free-text place categories onto a canonical taxonomy
// and scores how similar two categories are.
package category

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/bbceylan/pinbridge-web-sub000/internal/tables"
)

// Default is the bucket returned for categories that cannot be mapped.
const Default = "establishment"

// FuzzyThreshold is the minimum Jaro-Winkler similarity for the fuzzy
// fallback to accept a bucket.
const FuzzyThreshold = 0.7

// Similarity scores.
const (
	ScoreBothAbsent = 50
	ScoreOneAbsent  = 25
	ScoreEqual      = 100
	ScoreRelated    = 75
	ScoreUnrelated  = 0
)

// Relation describes how two categories compared.
type Relation string

// Relations.
const (
	RelationBothAbsent Relation = "both_absent"
	RelationOneAbsent  Relation = "one_absent"
	RelationEqual      Relation = "equal"
	RelationRelated    Relation = "related"
	RelationUnrelated  Relation = "unrelated"
)

// Method records which lookup step resolved a category.
type Method string

// Lookup methods, in the order they are tried.
const (
	MethodDirect  Method = "direct"
	MethodSynonym Method = "synonym"
	MethodToken   Method = "token"
	MethodFuzzy   Method = "fuzzy"
	MethodNone    Method = "none"
	MethodAbsent  Method = "absent"
)

// minTokenLength is the shortest word tried by the token lookup.
const minTokenLength = 3

// Resolution is the outcome of mapping one raw category.
type Resolution struct {
	Raw        string  `json:"raw"`
	Canonical  string  `json:"canonical"`
	Recognized bool    `json:"recognized"`
	Method     Method  `json:"method"`
	Similarity float64 `json:"similarity,omitempty"`
}

// Comparison is the outcome of Compare.
type Comparison struct {
	Score     int        `json:"score"`
	Relation  Relation   `json:"relation"`
	Original  Resolution `json:"original"`
	Candidate Resolution `json:"candidate"`
}

type term struct {
	text   string
	bucket string
}

// Mapper resolves categories against a fixed taxonomy. It is immutable and
// safe for concurrent use.
type Mapper struct {
	names    map[string]bool
	synonyms map[string]string
	related  map[string]map[string]bool
	terms    []term
}

// New builds a Mapper from category buckets. Relations are made symmetric.
func New(buckets []tables.CategoryBucket) *Mapper {
	m := &Mapper{
		names:    make(map[string]bool, len(buckets)),
		synonyms: make(map[string]string),
		related:  make(map[string]map[string]bool, len(buckets)),
	}
	for _, b := range buckets {
		name := key(b.Name)
		m.names[name] = true
		m.terms = append(m.terms, term{text: name, bucket: name})
	}
	for _, b := range buckets {
		name := key(b.Name)
		for _, a := range b.Aliases {
			a = key(a)
			if a == "" || m.names[a] {
				continue
			}
			if _, dup := m.synonyms[a]; !dup {
				m.synonyms[a] = name
				m.terms = append(m.terms, term{text: a, bucket: name})
			}
		}
		for _, r := range b.Related {
			m.relate(name, key(r))
		}
	}
	return m
}

func (m *Mapper) relate(a, b string) {
	if a == b {
		return
	}
	if m.related[a] == nil {
		m.related[a] = map[string]bool{}
	}
	if m.related[b] == nil {
		m.related[b] = map[string]bool{}
	}
	m.related[a][b] = true
	m.related[b][a] = true
}

// Normalize maps a raw category onto its canonical bucket. Unrecognized
// input returns Default with recognized=false; empty input returns "".
func (m *Mapper) Normalize(raw string) (string, bool) {
	r := m.Resolve(raw)
	return r.Canonical, r.Recognized
}

// Resolve is Normalize with the lookup trace.
func (m *Mapper) Resolve(raw string) Resolution {
	res := Resolution{Raw: raw}
	k := key(raw)
	if k == "" {
		res.Method = MethodAbsent
		return res
	}

	if m.names[k] {
		res.Canonical, res.Recognized, res.Method = k, true, MethodDirect
		return res
	}
	if b, ok := m.synonyms[k]; ok {
		res.Canonical, res.Recognized, res.Method = b, true, MethodSynonym
		return res
	}
	for _, tok := range strings.Split(k, "_") {
		if len(tok) < minTokenLength {
			continue
		}
		if m.names[tok] {
			res.Canonical, res.Recognized, res.Method = tok, true, MethodToken
			return res
		}
		if b, ok := m.synonyms[tok]; ok {
			res.Canonical, res.Recognized, res.Method = b, true, MethodToken
			return res
		}
	}

	jw := metrics.NewJaroWinkler()
	best, bestSim := "", 0.0
	for _, t := range m.terms {
		sim := strutil.Similarity(k, t.text, jw)
		if sim > bestSim {
			best, bestSim = t.bucket, sim
		}
	}
	if bestSim >= FuzzyThreshold {
		res.Canonical, res.Recognized, res.Method, res.Similarity = best, true, MethodFuzzy, bestSim
		return res
	}

	res.Canonical, res.Method = Default, MethodNone
	return res
}

// Related reports whether two canonical buckets are listed as related.
func (m *Mapper) Related(a, b string) bool {
	return m.related[a][b]
}

// Similarity scores two raw categories on the discrete scale: both absent
// 50, one absent 25, same bucket 100, related buckets 75, otherwise 0.
// Unrecognized categories count as absent.
func (m *Mapper) Similarity(a, b string) int {
	return m.Compare(a, b).Score
}

// Compare is Similarity with both resolutions and the relation found.
func (m *Mapper) Compare(a, b string) Comparison {
	c := Comparison{Original: m.Resolve(a), Candidate: m.Resolve(b)}
	oa, ob := c.Original.Recognized, c.Candidate.Recognized

	switch {
	case !oa && !ob:
		c.Score, c.Relation = ScoreBothAbsent, RelationBothAbsent
	case !oa || !ob:
		c.Score, c.Relation = ScoreOneAbsent, RelationOneAbsent
	case c.Original.Canonical == c.Candidate.Canonical:
		c.Score, c.Relation = ScoreEqual, RelationEqual
	case m.Related(c.Original.Canonical, c.Candidate.Canonical):
		c.Score, c.Relation = ScoreRelated, RelationRelated
	default:
		c.Score, c.Relation = ScoreUnrelated, RelationUnrelated
	}
	return c
}

// key lowercases and joins words with underscores.
func key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(s)
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' })
	return strings.Join(parts, "_")
}
