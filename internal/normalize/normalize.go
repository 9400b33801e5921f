// Package normalize canonicalizes place names and addresses so that the
// factor calculators compare like with like.
package normalize

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bbceylan/pinbridge-web-sub000/internal/tables"
)

// maxGramWords bounds the width of generated search n-grams.
const maxGramWords = 8

// variants maps quote and dash look-alikes onto their ASCII form.
var variants = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"ʼ", "'", "´", "'", "`", "'", "′", "'",
	"“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`,
	"‐", "-", "‑", "-", "‒", "-", "–", "-",
	"—", "-", "―", "-", "−", "-",
)

// Normalizer holds the compiled dictionary tables. It is immutable and safe
// for concurrent use.
type Normalizer struct {
	translit *strings.Replacer
	suffixes []string
	abbrev   map[string]string
}

// Option tweaks a single Name or Address call.
type Option func(*options)

type options struct {
	keepSuffixes      bool
	keepAbbreviations bool
}

// WithoutSuffixStripping keeps trailing business suffixes on names.
func WithoutSuffixStripping() Option {
	return func(o *options) { o.keepSuffixes = true }
}

// WithoutAbbreviationExpansion leaves street-type and directional
// abbreviations as written.
func WithoutAbbreviationExpansion() Option {
	return func(o *options) { o.keepAbbreviations = true }
}

// New builds a Normalizer from the dictionary tables.
func New(dict *tables.Dictionary) *Normalizer {
	keys := make([]string, 0, len(dict.Transliterations))
	for k := range dict.Transliterations {
		keys = append(keys, k)
	}
	// Longest keys first; strings.Replacer prefers earlier pairs on overlap.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, strings.ToLower(k), dict.Transliterations[k])
	}

	return &Normalizer{
		translit: strings.NewReplacer(pairs...),
		suffixes: dict.SortedSuffixes(),
		abbrev:   dict.Abbreviations(),
	}
}

// Name canonicalizes a place name: case, diacritics, symbols, trailing
// business suffixes and punctuation. Empty input yields "".
func (n *Normalizer) Name(text string, opts ...Option) string {
	o := applyOptions(opts)

	s := n.fold(text)
	if s == "" {
		return ""
	}
	if !o.keepSuffixes {
		s = n.stripSuffixes(s)
	}
	s = stripPunctuation(s)
	return collapse(s)
}

// Address canonicalizes a free-text address. Periods are dropped (except
// decimal points), commas are kept as ", " separators and abbreviations are
// expanded. Business suffixes are never stripped from addresses.
func (n *Normalizer) Address(text string, opts ...Option) string {
	o := applyOptions(opts)

	s := n.fold(text)
	if s == "" {
		return ""
	}
	s = addressPunctuation(s)
	s = collapse(s)
	s = tidyCommas(s)
	if !o.keepAbbreviations {
		s = n.expand(s)
	}
	return strings.Trim(s, ",;:-. ")
}

// SearchTokens returns the normalized name plus every contiguous word
// n-gram of at least three characters built from words of at least two
// characters, longest first. It is an auxiliary index and plays no part in
// scoring.
func (n *Normalizer) SearchTokens(name string) []string {
	full := n.Name(name)
	if full == "" {
		return nil
	}

	var words []string
	for _, w := range strings.Fields(full) {
		if utf8.RuneCountInString(w) >= 2 {
			words = append(words, w)
		}
	}

	seen := map[string]bool{full: true}
	tokens := []string{full}
	for i := range words {
		for j := i + 1; j <= len(words) && j-i <= maxGramWords; j++ {
			gram := strings.Join(words[i:j], " ")
			if utf8.RuneCountInString(gram) < 3 || seen[gram] {
				continue
			}
			seen[gram] = true
			tokens = append(tokens, gram)
		}
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(tokens[i]), utf8.RuneCountInString(tokens[j])
		if li != lj {
			return li > lj
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}

// fold applies the Unicode handling shared by names and addresses.
func (n *Normalizer) fold(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(strings.ToLower(s), "")
	s = n.translit.Replace(s)
	s = variants.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			if r < 0x20 || r == 0x7f {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.IsLetter(r) && unicode.In(r, unicode.Latin, unicode.Cyrillic, unicode.Greek):
			b.WriteString(strings.ToLower(strings.TrimSpace(unidecode.Unidecode(string(r)))))
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsPunct(r):
			b.WriteRune(r)
		default:
			// Emoji, symbols, format and private-use code points.
			b.WriteByte(' ')
		}
	}
	s = b.String()

	s = strings.NewReplacer("&", " and ", "+", " and ").Replace(s)
	return collapse(s)
}

// stripSuffixes removes trailing business suffixes until none applies. A
// name that consists only of a suffix is kept.
func (n *Normalizer) stripSuffixes(s string) string {
	for {
		t := strings.TrimRight(s, " .,;:-")
		if n.isSuffix(t) {
			return t
		}
		stripped := false
		for _, suf := range n.suffixes {
			if suf == "" {
				continue
			}
			if strings.HasSuffix(t, " "+suf) {
				rest := strings.TrimRight(t[:len(t)-len(suf)-1], " .,;:-")
				if rest == "" {
					continue
				}
				t = rest
				stripped = true
				break
			}
		}
		if !stripped {
			if t == "" {
				return s
			}
			return t
		}
		s = t
	}
}

func (n *Normalizer) isSuffix(s string) bool {
	for _, suf := range n.suffixes {
		if s == suf {
			return true
		}
	}
	return false
}

// expand replaces whole-word street-type and directional abbreviations.
// Words are whitespace delimited so forms like "joe's" never split.
func (n *Normalizer) expand(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		core := strings.TrimRight(w, ",")
		if full, ok := n.abbrev[core]; ok {
			words[i] = full + w[len(core):]
		}
	}
	return strings.Join(words, " ")
}

// stripPunctuation replaces punctuation with spaces, keeping apostrophes
// and hyphens that sit between two letters or digits.
func stripPunctuation(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			b.WriteRune(r)
			continue
		}
		if (r == '\'' || r == '-') && i > 0 && i < len(rs)-1 && isWordRune(rs[i-1]) && isWordRune(rs[i+1]) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}

// addressPunctuation drops periods (except between digits) and other
// punctuation that carries no address structure.
func addressPunctuation(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		switch {
		case r == '.':
			if i > 0 && i < len(rs)-1 && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteByte(' ')
			}
		case r == ',' || r == '\'' || r == '-' || r == '#' || r == '/':
			b.WriteRune(r)
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tidyCommas rewrites every run of commas and surrounding spaces as ", ".
func tidyCommas(s string) string {
	parts := strings.Split(s, ",")
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
