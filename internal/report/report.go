// Package report renders match results as JSON, text tables, CSV or an XLSX
// review workbook.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatTable, FormatCSV, FormatXLSX}

// Write renders results in the given format.
func Write(w io.Writer, format string, results []*model.MatchResult) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatTable:
		return WriteTable(w, results)
	case FormatCSV:
		return WriteCSV(w, results)
	case FormatXLSX:
		return WriteXLSX(w, results)
	default:
		return eris.Errorf("report: unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Columns is the flat header shared by the CSV and XLSX writers.
var Columns = []string{
	"query", "original_name", "rank", "candidate_id", "candidate_name", "candidate_source",
	"confidence_score", "confidence_level", "raw_score",
	"name_score", "address_score", "distance_score", "category_score",
	"data_completeness", "match_consistency", "geographic_reliability", "adjustments",
}

// row is one match flattened for tabular output.
type row struct {
	query    int
	original string
	match    model.Match
}

func flatten(results []*model.MatchResult) []row {
	var rows []row
	for i, r := range results {
		if r == nil {
			continue
		}
		for _, m := range r.Matches {
			rows = append(rows, row{query: i + 1, original: r.Query.Original.Name, match: m})
		}
	}
	return rows
}

func factorScore(m model.Match, t model.FactorType) int {
	if f := m.Factor(t); f != nil {
		return f.Score
	}
	return 0
}

func adjustments(cal model.CalibrationInfo) string {
	parts := make([]string, 0, len(cal.Adjustments))
	for _, a := range cal.Adjustments {
		parts = append(parts, fmt.Sprintf("%s %+d", a.Name, a.Delta))
	}
	return strings.Join(parts, "; ")
}
