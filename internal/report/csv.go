package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// WriteCSV writes one row per returned match.
func WriteCSV(w io.Writer, results []*model.MatchResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "report: write CSV header")
	}
	for _, r := range flatten(results) {
		if err := cw.Write(csvRecord(r)); err != nil {
			return eris.Wrap(err, "report: write CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "report: flush CSV")
	}
	return nil
}

func csvRecord(r row) []string {
	m := r.match
	q := m.Calibration.Quality
	return []string{
		strconv.Itoa(r.query),
		r.original,
		strconv.Itoa(m.Rank),
		m.Candidate.ID,
		m.Candidate.Name,
		m.Candidate.Source,
		strconv.Itoa(m.ConfidenceScore),
		string(m.ConfidenceLevel),
		strconv.FormatFloat(m.Calibration.RawScore, 'f', 2, 64),
		strconv.Itoa(factorScore(m, model.FactorName)),
		strconv.Itoa(factorScore(m, model.FactorAddress)),
		strconv.Itoa(factorScore(m, model.FactorDistance)),
		strconv.Itoa(factorScore(m, model.FactorCategory)),
		strconv.Itoa(q.DataCompleteness),
		strconv.Itoa(q.MatchConsistency),
		strconv.Itoa(q.GeographicReliability),
		adjustments(m.Calibration),
	}
}
