package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune            // default ','
	HasHeader  bool            // if true, first row is skipped but sent to HeaderCh
	HeaderCh   chan<- []string // optional: receives the header row
	Comment    rune            // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// StreamCSV reads CSV records and sends rows to a channel.
// Caller must consume the returned row channel. Errors are sent on the error channel.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // allow variable fields

		first := true
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			if first && opts.HasHeader {
				first = false
				if opts.HeaderCh != nil {
					select {
					case opts.HeaderCh <- record:
					case <-ctx.Done():
						errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled sending header")
						return
					}
				}
				continue
			}
			first = false

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadCandidatesCSV reads candidate places from CSV with a header row. The
// HasHeader and HeaderCh options are managed by the reader.
func ReadCandidatesCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]model.CandidatePlace, error) {
	opts.HasHeader = false
	opts.HeaderCh = nil
	opts.TrimSpace = true

	rowCh, errCh := StreamCSV(ctx, r, opts)

	var (
		cols  columns
		out   []model.CandidatePlace
		line  int
		first = true
		err   error
	)
	for row := range rowCh {
		line++
		if first {
			first = false
			if cols, err = headerColumns(row); err != nil {
				break
			}
			continue
		}
		if c, ok := cols.candidate(row, line); ok {
			out = append(out, c)
		}
	}
	if err != nil {
		// Drain so the producer can exit.
		for range rowCh {
		}
		return nil, eris.Wrap(err, "csv: header")
	}
	for e := range errCh {
		if e != nil {
			return nil, e
		}
	}
	if first {
		return nil, eris.New("csv: empty input")
	}
	return out, nil
}
