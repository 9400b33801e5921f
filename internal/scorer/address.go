package scorer

import (
	"strings"

	"github.com/bbceylan/pinbridge-web-sub000/internal/address"
)

// Address component weights, renormalized over the components present on
// both sides.
const (
	streetNumberWeight = 30
	streetNameWeight   = 40
	cityWeight         = 20
	postalCodeWeight   = 10
)

type componentScore struct {
	name   string
	weight float64
	score  float64
}

// Address scores how similar two addresses are. Identical normalized
// addresses score 100; otherwise parsed components present on both sides
// are compared and averaged by weight. When no component is shared, the
// full strings are compared instead.
func (s *Scorer) Address(original, candidate string, verbose bool) Factor {
	tr := newTracer(verbose, original, candidate)
	a, b := s.norm.Address(original), s.norm.Address(candidate)
	tr.normalized(a, b)
	tr.step("normalized addresses: %q and %q", a, b)

	details := map[string]any{
		"normalized_original":  a,
		"normalized_candidate": b,
	}

	if a == "" || b == "" {
		tr.step("address missing after normalization, score 0")
		return Factor{Score: 0, Explanation: "address missing on one or both places", Details: details, Debug: tr.debug()}
	}
	if a == b {
		tr.step("normalized addresses are identical, score 100")
		return Factor{Score: 100, Explanation: "addresses match exactly", Details: details, Debug: tr.debug()}
	}

	ca, cb := s.extractor.Extract(a), s.extractor.Extract(b)
	details["components_original"] = ca
	details["components_candidate"] = cb
	tr.step("components original: %+v", ca)
	tr.step("components candidate: %+v", cb)

	parts := compareComponents(ca, cb)
	if len(parts) == 0 {
		sim, dist := similarity(a, b)
		score := clamp(round(sim), 0, 100)
		tr.step("no shared components, full-string edit distance %d gives %d", dist, score)
		details["method"] = "full_string"
		details["edit_distance"] = dist
		return Factor{
			Score:       score,
			Explanation: explainPercent("addresses are", score, "similar as whole strings"),
			Details:     details,
			Debug:       tr.debug(),
		}
	}

	var total, weighted float64
	for _, p := range parts {
		total += p.weight
	}
	compared := make(map[string]int, len(parts))
	var names []string
	for _, p := range parts {
		weighted += p.weight * p.score
		compared[p.name] = round(p.score)
		names = append(names, p.name)
		tr.step("%s: %.0f (weight %.0f)", p.name, p.score, p.weight)
		if p.score == 0 {
			tr.penalty(p.name+"_mismatch", -round(p.weight/total*100), p.name+" differs")
		}
	}
	score := clamp(round(weighted/total), 0, 100)
	tr.step("weighted component average %d", score)

	details["method"] = "components"
	details["component_scores"] = compared

	return Factor{
		Score:       score,
		Explanation: explainPercent("addresses are", score, "similar by "+strings.Join(names, ", ")),
		Details:     details,
		Debug:       tr.debug(),
	}
}

// compareComponents scores every component present on both sides.
func compareComponents(a, b address.Components) []componentScore {
	var parts []componentScore
	if a.StreetNumber != "" && b.StreetNumber != "" {
		parts = append(parts, componentScore{"street_number", streetNumberWeight, exact(a.StreetNumber, b.StreetNumber)})
	}
	if a.StreetName != "" && b.StreetName != "" {
		sim, _ := similarity(a.StreetName, b.StreetName)
		parts = append(parts, componentScore{"street_name", streetNameWeight, sim})
	}
	if a.City != "" && b.City != "" {
		sim, _ := similarity(a.City, b.City)
		parts = append(parts, componentScore{"city", cityWeight, sim})
	}
	if a.PostalCode != "" && b.PostalCode != "" {
		parts = append(parts, componentScore{"postal_code", postalCodeWeight, exact(compact(a.PostalCode), compact(b.PostalCode))})
	}
	return parts
}

func exact(a, b string) float64 {
	if a == b {
		return 100
	}
	return 0
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
