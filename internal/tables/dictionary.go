// Package tables holds the swappable dictionaries that drive normalization,
// address parsing and category mapping.
package tables

import (
	_ "embed"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// PostalPattern is a named postal-code regular expression. Patterns are
// matched against lowercased, normalized addresses.
type PostalPattern struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

// CategoryBucket is one canonical category with its accepted synonyms and the
// buckets it is considered related to.
type CategoryBucket struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases" json:"aliases"`
	Related []string `yaml:"related" json:"related"`
}

// Dictionary is the full set of lookup tables. A Dictionary is read-only
// after Load or Default returns it.
type Dictionary struct {
	BusinessSuffixes       []string          `yaml:"business_suffixes" json:"business_suffixes"`
	Transliterations       map[string]string `yaml:"transliterations" json:"transliterations"`
	StreetTypes            map[string]string `yaml:"street_types" json:"street_types"`
	StreetWords            []string          `yaml:"street_words" json:"street_words"`
	CompoundStreetSuffixes []string          `yaml:"compound_street_suffixes" json:"compound_street_suffixes"`
	Directionals           map[string]string `yaml:"directionals" json:"directionals"`
	PostalPatterns         []PostalPattern   `yaml:"postal_patterns" json:"postal_patterns"`
	Categories             []CategoryBucket  `yaml:"categories" json:"categories"`
}

// Default returns the embedded default dictionary.
func Default() (*Dictionary, error) {
	d := &Dictionary{}
	if err := yaml.Unmarshal(defaultsYAML, d); err != nil {
		return nil, eris.Wrap(err, "tables: parse embedded defaults")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// MustDefault is Default for package-level initialization in tests and tools.
func MustDefault() *Dictionary {
	d, err := Default()
	if err != nil {
		panic(err)
	}
	return d
}

// Load reads a dictionary override file on top of the embedded defaults.
// List keys present in the file replace the default list; map keys extend
// the default map. An empty path returns the defaults unchanged.
func Load(path string) (*Dictionary, error) {
	d, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return d, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tables: read %s", path)
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, eris.Wrapf(err, "tables: parse %s", path)
	}
	if err := d.Validate(); err != nil {
		return nil, eris.Wrapf(err, "tables: validate %s", path)
	}
	return d, nil
}

// Validate checks that every pattern compiles, bucket names are unique and
// related references point at existing buckets. All problems are reported
// together.
func (d *Dictionary) Validate() error {
	var errs []string

	for _, p := range d.PostalPatterns {
		if p.Name == "" {
			errs = append(errs, "postal pattern with empty name")
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, "postal pattern "+p.Name+": "+err.Error())
		}
	}

	names := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		if c.Name == "" {
			errs = append(errs, "category bucket with empty name")
			continue
		}
		if names[c.Name] {
			errs = append(errs, "duplicate category bucket "+c.Name)
		}
		names[c.Name] = true
	}
	for _, c := range d.Categories {
		for _, r := range c.Related {
			if !names[r] {
				errs = append(errs, "category "+c.Name+" relates to unknown bucket "+r)
			}
		}
	}

	for _, s := range d.BusinessSuffixes {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, "empty business suffix")
		}
	}

	if len(errs) > 0 {
		return eris.New("tables: invalid dictionary: " + strings.Join(errs, "; "))
	}
	return nil
}

// CompiledPostalPatterns returns the postal patterns compiled in table order.
// Validate guarantees they compile.
func (d *Dictionary) CompiledPostalPatterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(d.PostalPatterns))
	for _, p := range d.PostalPatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}

// StreetTypeWords returns the set of full street-type words an expanded
// address can contain.
func (d *Dictionary) StreetTypeWords() map[string]bool {
	out := make(map[string]bool, len(d.StreetTypes)+len(d.StreetWords))
	for _, full := range d.StreetTypes {
		out[full] = true
	}
	for _, w := range d.StreetWords {
		out[strings.ToLower(w)] = true
	}
	return out
}

// Abbreviations merges street types and directionals into one lookup table.
// Street types win on conflict.
func (d *Dictionary) Abbreviations() map[string]string {
	out := make(map[string]string, len(d.StreetTypes)+len(d.Directionals))
	for k, v := range d.Directionals {
		out[strings.ToLower(k)] = v
	}
	for k, v := range d.StreetTypes {
		out[strings.ToLower(k)] = v
	}
	return out
}

// SortedSuffixes returns business suffixes longest first so multi-word
// suffixes are tried before their tails.
func (d *Dictionary) SortedSuffixes() []string {
	out := make([]string, 0, len(d.BusinessSuffixes))
	for _, s := range d.BusinessSuffixes {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
