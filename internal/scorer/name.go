package scorer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Name factor constants.
const (
	containmentBonus   = 10
	commonWordBonus    = 5
	maxCommonWordBonus = 20
	minCommonWordLen   = 3
)

// Name scores how similar two place names are. Both names are normalized;
// identical results score 100. Otherwise the Levenshtein similarity is
// boosted when one name contains the other and for each shared word.
func (s *Scorer) Name(original, candidate string, verbose bool) Factor {
	tr := newTracer(verbose, original, candidate)
	a, b := s.norm.Name(original), s.norm.Name(candidate)
	tr.normalized(a, b)
	tr.step("normalized names: %q and %q", a, b)

	details := map[string]any{
		"normalized_original":  a,
		"normalized_candidate": b,
	}

	if a == "" || b == "" {
		tr.step("name missing after normalization, score 0")
		return Factor{
			Score:       0,
			Explanation: "name missing on one or both places",
			Details:     details,
			Debug:       tr.debug(),
		}
	}
	if a == b {
		tr.step("normalized names are identical, score 100")
		details["edit_distance"] = 0
		return Factor{Score: 100, Explanation: "names match exactly", Details: details, Debug: tr.debug()}
	}

	sim, dist := similarity(a, b)
	base := round(sim)
	tr.step("edit distance %d over max length %d gives base similarity %d",
		dist, max(utf8.RuneCountInString(a), utf8.RuneCountInString(b)), base)

	score := base
	var bonus int
	if strings.Contains(a, b) || strings.Contains(b, a) {
		bonus = containmentBonus
		tr.bonus("containment", bonus, "one name contains the other")
		tr.step("containment bonus +%d", bonus)
	}
	score += bonus

	common := commonWords(a, b)
	wordBonus := min(maxCommonWordBonus, commonWordBonus*len(common))
	if wordBonus > 0 {
		tr.bonus("common_words", wordBonus, fmt.Sprintf("%d shared words: %s", len(common), strings.Join(common, ", ")))
		tr.step("%d common words bonus +%d", len(common), wordBonus)
	}
	score += wordBonus

	if score > 100 {
		tr.step("capped %d at 100", score)
		score = 100
	}

	details["edit_distance"] = dist
	details["base_similarity"] = base
	details["containment_bonus"] = bonus
	details["common_words"] = common
	details["common_word_bonus"] = wordBonus

	return Factor{
		Score:       score,
		Explanation: nameExplanation(score, base, bonus, len(common)),
		Details:     details,
		Debug:       tr.debug(),
	}
}

func nameExplanation(score, base, containment, common int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "names are %d%% similar", base)
	if containment > 0 {
		b.WriteString(", one contains the other")
	}
	if common > 0 {
		fmt.Fprintf(&b, ", %d shared words", common)
	}
	if score != base {
		fmt.Fprintf(&b, " (score %d)", score)
	}
	return b.String()
}

// commonWords returns the distinct words of a, at least three characters
// long, that match a word of b by substring containment.
func commonWords(a, b string) []string {
	var bw []string
	for _, w := range strings.Fields(b) {
		if utf8.RuneCountInString(w) >= minCommonWordLen {
			bw = append(bw, w)
		}
	}

	seen := map[string]bool{}
	common := []string{}
	for _, w := range strings.Fields(a) {
		if utf8.RuneCountInString(w) < minCommonWordLen || seen[w] {
			continue
		}
		seen[w] = true
		for _, v := range bw {
			if strings.Contains(v, w) || strings.Contains(w, v) {
				common = append(common, w)
				break
			}
		}
	}
	return common
}
