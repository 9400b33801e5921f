package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bbceylan/pinbridge-web-sub000/internal/fetcher"
	"github.com/bbceylan/pinbridge-web-sub000/internal/match"
	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
	"github.com/bbceylan/pinbridge-web-sub000/internal/report"
)

var (
	batchInput       string
	batchOutput      string
	batchConcurrency int
)

// batchRecord is one line of batch output. Exactly one of Result and Error
// is set.
type batchRecord struct {
	RunID  string             `json:"run_id"`
	Index  int                `json:"index"`
	Result *model.MatchResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score a file of queries concurrently and write JSON Lines results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if batchConcurrency > 0 {
			cfg.Batch.MaxConcurrentQueries = batchConcurrency
		}
		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		eng, err := newEngine(cfg)
		if err != nil {
			return err
		}

		queries, err := fetcher.LoadQueries(ctx, batchInput)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if batchOutput != "" {
			w, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrapf(err, "batch: create output file %s", batchOutput)
			}
			defer w.Close() //nolint:errcheck
			out = w
		}

		records, err := processBatch(ctx, eng, queries, cfg.Batch.MaxConcurrentQueries)
		if err != nil {
			return err
		}

		jw := report.NewJSONLinesWriter(out)
		for _, r := range records {
			if err := jw.Write(r); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "query file (json or jsonl)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "output JSON Lines file (default stdout)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent queries (default from config)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// processBatch scores queries concurrently. Records keep the input order. A
// query with invalid options is recorded as failed without aborting the
// batch; cancellation aborts it.
func processBatch(ctx context.Context, eng *match.Engine, queries []model.MatchQuery, concurrency int) ([]batchRecord, error) {
	runID := uuid.NewString()
	records := make([]batchRecord, len(queries))
	if len(queries) == 0 {
		zap.L().Info("no queries to process", zap.String("run_id", runID))
		return records, nil
	}

	zap.L().Info("processing batch",
		zap.String("run_id", runID),
		zap.Int("queries", len(queries)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))

	var succeeded, failed atomic.Int64

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rec := batchRecord{RunID: runID, Index: i}
			res, err := eng.Match(q)
			if err != nil {
				failed.Add(1)
				rec.Error = err.Error()
				zap.L().Warn("query failed", zap.Int("index", i), zap.Error(err))
			} else {
				succeeded.Add(1)
				rec.Result = res
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: processing")
	}

	zap.L().Info("batch complete",
		zap.String("run_id", runID),
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return records, nil
}
