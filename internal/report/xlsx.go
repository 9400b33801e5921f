package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// Sheet names of the review workbook.
const (
	MatchesSheet = "Matches"
	SummarySheet = "Summary"
)

var summaryColumns = []string{
	"query", "original_name", "total_candidates", "valid_matches", "average_confidence",
	"best_candidate_id", "best_candidate_name", "best_score", "best_level",
}

// WriteXLSX writes a review workbook: one row per match on the Matches sheet
// and one row per query on the Summary sheet.
func WriteXLSX(w io.Writer, results []*model.MatchResult) error {
	f, err := BuildWorkbook(results)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

// BuildWorkbook assembles the review workbook in memory.
func BuildWorkbook(results []*model.MatchResult) (*xlsx.File, error) {
	f := xlsx.NewFile()

	matches, err := f.AddSheet(MatchesSheet)
	if err != nil {
		return nil, eris.Wrap(err, "report: add matches sheet")
	}
	addStrings(matches.AddRow(), Columns)
	for _, r := range flatten(results) {
		m := r.match
		q := m.Calibration.Quality
		xr := matches.AddRow()
		xr.AddCell().SetInt(r.query)
		xr.AddCell().SetString(r.original)
		xr.AddCell().SetInt(m.Rank)
		xr.AddCell().SetString(m.Candidate.ID)
		xr.AddCell().SetString(m.Candidate.Name)
		xr.AddCell().SetString(m.Candidate.Source)
		xr.AddCell().SetInt(m.ConfidenceScore)
		xr.AddCell().SetString(string(m.ConfidenceLevel))
		xr.AddCell().SetFloat(m.Calibration.RawScore)
		for _, t := range model.FactorTypes {
			xr.AddCell().SetInt(factorScore(m, t))
		}
		xr.AddCell().SetInt(q.DataCompleteness)
		xr.AddCell().SetInt(q.MatchConsistency)
		xr.AddCell().SetInt(q.GeographicReliability)
		xr.AddCell().SetString(adjustments(m.Calibration))
	}

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "report: add summary sheet")
	}
	addStrings(summary.AddRow(), summaryColumns)
	for i, r := range results {
		if r == nil {
			continue
		}
		xr := summary.AddRow()
		xr.AddCell().SetInt(i + 1)
		xr.AddCell().SetString(r.Query.Original.Name)
		xr.AddCell().SetInt(r.Metadata.TotalCandidates)
		xr.AddCell().SetInt(r.Metadata.ValidMatches)
		xr.AddCell().SetInt(r.Metadata.AverageConfidence)
		if b := r.BestMatch; b != nil {
			xr.AddCell().SetString(b.Candidate.ID)
			xr.AddCell().SetString(b.Candidate.Name)
			xr.AddCell().SetInt(b.ConfidenceScore)
			xr.AddCell().SetString(string(b.ConfidenceLevel))
		}
	}
	return f, nil
}

func addStrings(r *xlsx.Row, values []string) {
	for _, v := range values {
		r.AddCell().SetString(v)
	}
}
