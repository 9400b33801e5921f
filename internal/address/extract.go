// Package address parses normalized addresses into their components. The
// parser is best effort: anything it cannot place is left empty.
package address

import (
	"regexp"
	"strings"

	"github.com/bbceylan/pinbridge-web-sub000/internal/tables"
)

var (
	leadingNumberRe = regexp.MustCompile(`^\d+[a-z]?(?:[-/]\d+[a-z]?)?$`)
	bareNumberRe    = regexp.MustCompile(`^\d+[a-z]?$`)
)

// Components are the parts of an address. Empty fields are absent.
type Components struct {
	StreetNumber string `json:"street_number,omitempty"`
	StreetName   string `json:"street_name,omitempty"`
	City         string `json:"city,omitempty"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// Count returns the number of components present.
func (c Components) Count() int {
	n := 0
	for _, v := range []string{c.StreetNumber, c.StreetName, c.City, c.Region, c.PostalCode} {
		if v != "" {
			n++
		}
	}
	return n
}

// Extractor holds the compiled postal patterns and street-type words.
type Extractor struct {
	postal    []*regexp.Regexp
	typeWords map[string]bool
	compound  []string
}

// New builds an Extractor from the dictionary tables.
func New(dict *tables.Dictionary) *Extractor {
	return &Extractor{
		postal:    dict.CompiledPostalPatterns(),
		typeWords: dict.StreetTypeWords(),
		compound:  dict.CompoundStreetSuffixes,
	}
}

// Extract parses an address already passed through the address normalizer.
func (e *Extractor) Extract(normalized string) Components {
	s := strings.TrimSpace(normalized)
	if s == "" {
		return Components{}
	}

	var c Components
	c.PostalCode = e.findPostal(s)

	segs := splitSegments(s)
	postalSeg := -1
	if c.PostalCode != "" {
		for i, seg := range segs {
			if strings.Contains(seg, c.PostalCode) {
				postalSeg = i
				break
			}
		}
	}

	street := segs[0]
	if postalSeg == 0 {
		street = removeWord(street, c.PostalCode)
	}
	var fragment string
	c.StreetNumber, c.StreetName, fragment = e.splitStreet(street)

	switch {
	case postalSeg > 0:
		e.placePostalSegment(&c, segs, postalSeg)
	case len(segs) > 1:
		c.City = segs[1]
		if len(segs) > 2 {
			c.Region = segs[2]
		}
	}
	if c.City == "" {
		c.City = fragment
	}
	return c
}

// findPostal tries each pattern in table order and returns the last match of
// the first pattern that matches anywhere but the very start of the address,
// where a street number sits.
func (e *Extractor) findPostal(s string) string {
	for _, re := range e.postal {
		locs := re.FindAllStringIndex(s, -1)
		for i := len(locs) - 1; i >= 0; i-- {
			if locs[i][0] > 0 {
				return s[locs[i][0]:locs[i][1]]
			}
		}
	}
	return ""
}

// placePostalSegment recovers city and region around the segment holding
// the postal code.
func (e *Extractor) placePostalSegment(c *Components, segs []string, p int) {
	seg := segs[p]
	idx := strings.Index(seg, c.PostalCode)
	before := strings.TrimSpace(seg[:idx])
	after := strings.TrimSpace(seg[idx+len(c.PostalCode):])

	switch {
	case before != "" && after == "":
		// "REGION POSTAL"; UK style "CITY POSTAL" when it follows the street.
		if p-1 >= 1 {
			c.Region = before
			c.City = segs[p-1]
		} else {
			c.City = before
		}
	case after != "":
		// "POSTAL CITY"
		c.City = after
		if before != "" {
			c.Region = before
		} else if p+1 < len(segs) {
			c.Region = segs[p+1]
		}
	default:
		// Postal code on its own: walk back for city and region.
		if p-2 >= 1 {
			c.City = segs[p-2]
			c.Region = segs[p-1]
		} else if p-1 >= 1 {
			c.City = segs[p-1]
		}
	}
}

// splitStreet separates the street number, the street name up to and
// including its type word, and any trailing words that look like a city.
func (e *Extractor) splitStreet(street string) (number, name, fragment string) {
	words := strings.Fields(street)
	if len(words) == 0 {
		return "", "", ""
	}

	if leadingNumberRe.MatchString(words[0]) {
		number = words[0]
		words = words[1:]
	} else if len(words) > 1 && bareNumberRe.MatchString(words[len(words)-1]) {
		number = words[len(words)-1]
		words = words[:len(words)-1]
	}

	for i, w := range words {
		if (i > 0 && e.typeWords[w]) || e.isCompound(w) {
			return number, strings.Join(words[:i+1], " "), strings.Join(words[i+1:], " ")
		}
	}
	return number, strings.Join(words, " "), ""
}

func (e *Extractor) isCompound(w string) bool {
	for _, suf := range e.compound {
		if len(w) > len(suf)+2 && strings.HasSuffix(w, suf) {
			return true
		}
	}
	return false
}

func splitSegments(s string) []string {
	var segs []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			segs = append(segs, p)
		}
	}
	if len(segs) == 0 {
		return []string{""}
	}
	return segs
}

func removeWord(s, word string) string {
	return strings.Join(strings.Fields(strings.Replace(s, word, " ", 1)), " ")
}
