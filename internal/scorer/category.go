package scorer

import (
	"fmt"

	"github.com/bbceylan/pinbridge-web-sub000/internal/category"
)

// Category scores how similar two categories are on the discrete
// 50/25/100/75/0 scale of the category mapper.
func (s *Scorer) Category(original, candidate string, verbose bool) Factor {
	tr := newTracer(verbose, original, candidate)
	cmp := s.mapper.Compare(original, candidate)
	tr.normalized(cmp.Original.Canonical, cmp.Candidate.Canonical)
	tr.step("original %q resolved to %q via %s", original, cmp.Original.Canonical, cmp.Original.Method)
	tr.step("candidate %q resolved to %q via %s", candidate, cmp.Candidate.Canonical, cmp.Candidate.Method)
	tr.step("relation %s, score %d", cmp.Relation, cmp.Score)

	details := map[string]any{
		"canonical_original":   cmp.Original.Canonical,
		"canonical_candidate":  cmp.Candidate.Canonical,
		"recognized_original":  cmp.Original.Recognized,
		"recognized_candidate": cmp.Candidate.Recognized,
		"relation":             string(cmp.Relation),
	}

	return Factor{
		Score:       cmp.Score,
		Explanation: categoryExplanation(cmp),
		Details:     details,
		Debug:       tr.debug(),
	}
}

func categoryExplanation(c category.Comparison) string {
	switch c.Relation {
	case category.RelationBothAbsent:
		return "no category on either place"
	case category.RelationOneAbsent:
		return "category missing on one place"
	case category.RelationEqual:
		return fmt.Sprintf("both places are %s", c.Original.Canonical)
	case category.RelationRelated:
		return fmt.Sprintf("%s and %s are related categories", c.Original.Canonical, c.Candidate.Canonical)
	default:
		return fmt.Sprintf("%s and %s are unrelated categories", c.Original.Canonical, c.Candidate.Canonical)
	}
}
