package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// WriteJSON writes a single result as an indented object, or several as an
// indented array.
func WriteJSON(w io.Writer, results []*model.MatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	var v any = results
	if len(results) == 1 {
		v = results[0]
	}
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "report: encode json")
	}
	return nil
}

// JSONLinesWriter writes one compact JSON record per line. It is not safe
// for concurrent use.
type JSONLinesWriter struct {
	enc *json.Encoder
}

// NewJSONLinesWriter creates a JSONLinesWriter on w.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	return &JSONLinesWriter{enc: json.NewEncoder(w)}
}

// Write encodes v on its own line.
func (j *JSONLinesWriter) Write(v any) error {
	if err := j.enc.Encode(v); err != nil {
		return eris.Wrap(err, "report: encode json line")
	}
	return nil
}
