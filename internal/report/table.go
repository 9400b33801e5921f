package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

const maxNameWidth = 30

// WriteTable writes a human-readable table per result.
func WriteTable(out io.Writer, results []*model.MatchResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, r := range results {
		if r == nil {
			continue
		}
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "Original:\t%s\n", r.Query.Original.Name)
		_, _ = fmt.Fprintf(w, "Candidates:\t%d (matched %d, average %d)\n",
			r.Metadata.TotalCandidates, r.Metadata.ValidMatches, r.Metadata.AverageConfidence)

		if len(r.Matches) == 0 {
			_, _ = fmt.Fprintln(w, "No candidate reached the confidence threshold.")
			continue
		}

		_, _ = fmt.Fprintln(w, "RANK\tCANDIDATE\tSCORE\tLEVEL\tNAME\tADDRESS\tDISTANCE\tCATEGORY\tSOURCE")
		_, _ = fmt.Fprintln(w, "----\t---------\t-----\t-----\t----\t-------\t--------\t--------\t------")
		for _, m := range r.Matches {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
				m.Rank,
				truncate(m.Candidate.Name, maxNameWidth),
				m.ConfidenceScore,
				m.ConfidenceLevel,
				factorScore(m, model.FactorName),
				factorScore(m, model.FactorAddress),
				factorScore(m, model.FactorDistance),
				factorScore(m, model.FactorCategory),
				m.Candidate.Source,
			)
		}

		if best := r.BestMatch; best != nil && best.Summary != nil {
			for _, issue := range best.Summary.Issues {
				_, _ = fmt.Fprintf(w, "Issue:\t%s\n", issue)
			}
			for _, rec := range best.Summary.Recommendations {
				_, _ = fmt.Fprintf(w, "Recommendation:\t%s\n", rec)
			}
		}
	}
	return w.Flush()
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
