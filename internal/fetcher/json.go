package fetcher

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"unicode"

	"github.com/rotisserie/eris"
)

// DecodeJSONArray decodes a JSON array streaming, sending each element to a channel.
// Expects input in the form [{...},{...}].
// Both channels are closed when processing completes.
func DecodeJSONArray[T any](ctx context.Context, r io.Reader) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)

		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- eris.Wrap(err, "json: read opening token")
			return
		}

		delim, ok := tok.(json.Delim)
		if !ok || delim != '[' {
			errCh <- eris.Errorf("json: expected '[', got %v", tok)
			return
		}

		for decoder.More() {
			var item T
			if err := decoder.Decode(&item); err != nil {
				errCh <- eris.Wrap(err, "json: decode element")
				return
			}
			if !send(ctx, outCh, errCh, item) {
				return
			}
		}

		if _, err := decoder.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "json: read closing token")
		}
	}()

	return outCh, errCh
}

// StreamJSONLines decodes a stream of concatenated JSON objects, one per
// line in JSON Lines files, sending each to a channel.
// Both channels are closed when processing completes.
func StreamJSONLines[T any](ctx context.Context, r io.Reader) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)
		for n := 1; ; n++ {
			var item T
			err := decoder.Decode(&item)
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrapf(err, "json: decode record %d", n)
				return
			}
			if !send(ctx, outCh, errCh, item) {
				return
			}
		}
	}()

	return outCh, errCh
}

// DecodeAll reads every record from a JSON array, a single JSON object or a
// JSON Lines stream, choosing by the first non-space byte.
func DecodeAll[T any](ctx context.Context, r io.Reader) ([]T, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "json: read input")
	}

	var (
		outCh <-chan T
		errCh <-chan error
	)
	if first == '[' {
		outCh, errCh = DecodeJSONArray[T](ctx, br)
	} else {
		outCh, errCh = StreamJSONLines[T](ctx, br)
	}

	var out []T
	for item := range outCh {
		out = append(out, item)
	}
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func send[T any](ctx context.Context, outCh chan<- T, errCh chan<- error, item T) bool {
	select {
	case outCh <- item:
		return true
	case <-ctx.Done():
		errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
		return false
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if b[0] == 0xEF {
			// UTF-8 byte order mark.
			if bom, _ := br.Peek(3); len(bom) == 3 && bom[1] == 0xBB && bom[2] == 0xBF {
				_, _ = br.Discard(3)
				continue
			}
		}
		if !unicode.IsSpace(rune(b[0])) {
			return b[0], nil
		}
		_, _ = br.Discard(1)
	}
}
