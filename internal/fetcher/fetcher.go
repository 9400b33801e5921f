// Package fetcher loads match queries and candidate places from local CSV,
// XLSX, JSON and JSON Lines files.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// Format identifies an input file format.
type Format string

// Supported formats.
const (
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// DetectFormat returns the format implied by a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return "", eris.Errorf("fetcher: unsupported file type %q", filepath.Ext(path))
	}
}

// LoadCandidates reads candidate places from a CSV, XLSX, JSON or JSON Lines
// file. Tabular files need a header row with at least a name column.
func LoadCandidates(ctx context.Context, path string) ([]model.CandidatePlace, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var out []model.CandidatePlace
	switch format {
	case FormatXLSX:
		out, err = ReadCandidatesXLSX(path, XLSXOptions{})
	default:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, eris.Wrapf(openErr, "fetcher: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		if format == FormatCSV {
			out, err = ReadCandidatesCSV(ctx, f, CSVOptions{})
		} else {
			out, err = DecodeAll[model.CandidatePlace](ctx, f)
		}
	}
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: load candidates from %s", path)
	}

	zap.L().Debug("fetcher: loaded candidates",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("count", len(out)),
	)
	return out, nil
}

// LoadQueries reads match queries from a JSON file (one query or an array of
// queries) or a JSON Lines file.
func LoadQueries(ctx context.Context, path string) ([]model.MatchQuery, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format != FormatJSON && format != FormatJSONL {
		return nil, eris.Errorf("fetcher: queries must be json or jsonl, got %s", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	queries, err := DecodeAll[model.MatchQuery](ctx, f)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: load queries from %s", path)
	}
	return queries, nil
}
