package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bbceylan/pinbridge-web-sub000/internal/fetcher"
	"github.com/bbceylan/pinbridge-web-sub000/internal/match"
	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
	"github.com/bbceylan/pinbridge-web-sub000/internal/report"
)

// matchFlags are the command-line inputs of the match command. Pointer
// fields are set only when the flag was given.
type matchFlags struct {
	queryPath      string
	candidatesPath string
	format         string
	outputPath     string
	verbose        *bool
	strict         *bool
	minScore       *float64
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score and rank candidates for one or more saved places",
	Example: `  placematch match --query query.json
  placematch match --query place.json --candidates candidates.csv --format table
  placematch match --query queries.jsonl --format xlsx --output review.xlsx --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("match"); err != nil {
			return err
		}

		f := cmd.Flags()
		mf := matchFlags{}
		mf.queryPath, _ = f.GetString("query")
		mf.candidatesPath, _ = f.GetString("candidates")
		mf.format, _ = f.GetString("format")
		mf.outputPath, _ = f.GetString("output")
		if f.Changed("verbose") {
			v, _ := f.GetBool("verbose")
			mf.verbose = &v
		}
		if f.Changed("strict") {
			v, _ := f.GetBool("strict")
			mf.strict = &v
		}
		if f.Changed("min-score") {
			v, _ := f.GetFloat64("min-score")
			mf.minScore = &v
		}

		eng, err := newEngine(cfg)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if mf.outputPath != "" {
			w, err := os.Create(mf.outputPath)
			if err != nil {
				return eris.Wrapf(err, "match: create output file %s", mf.outputPath)
			}
			defer w.Close() //nolint:errcheck
			out = w
		} else if mf.format == report.FormatXLSX {
			return eris.New("match: --output is required for xlsx")
		}

		return runMatch(cmd.Context(), eng, mf, out)
	},
}

func init() {
	f := matchCmd.Flags()
	f.String("query", "", "query file: a JSON object, a JSON array or JSON Lines of queries")
	f.String("candidates", "", "candidate file (csv, xlsx, json, jsonl) replacing each query's candidates")
	f.String("format", report.FormatJSON, "output format: json, table, csv or xlsx")
	f.String("output", "", "output file (default stdout)")
	f.Bool("verbose", false, "attach calculation traces and debug summaries")
	f.Bool("strict", false, "drop candidates with dissimilar names or out-of-range coordinates")
	f.Float64("min-score", 0, "minimum confidence score to keep a candidate")
	_ = matchCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(matchCmd)
}

// runMatch loads the queries, applies flag overrides, scores every query and
// writes the report.
func runMatch(ctx context.Context, eng *match.Engine, mf matchFlags, out io.Writer) error {
	queries, err := fetcher.LoadQueries(ctx, mf.queryPath)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return eris.Errorf("match: no queries in %s", mf.queryPath)
	}

	var candidates []model.CandidatePlace
	if mf.candidatesPath != "" {
		if candidates, err = fetcher.LoadCandidates(ctx, mf.candidatesPath); err != nil {
			return err
		}
	}

	results := make([]*model.MatchResult, 0, len(queries))
	for i := range queries {
		q := queries[i]
		if candidates != nil {
			q.Candidates = candidates
		}
		q.Options = overrideOptions(q.Options, mf)

		res, err := eng.Match(q)
		if err != nil {
			return eris.Wrapf(err, "match: query %d", i+1)
		}
		results = append(results, res)
	}

	zap.L().Info("match complete",
		zap.Int("queries", len(results)),
		zap.String("format", mf.format),
	)
	return report.Write(out, mf.format, results)
}

// overrideOptions copies the query options and applies any flag overrides.
func overrideOptions(o *model.MatchOptions, mf matchFlags) *model.MatchOptions {
	if mf.verbose == nil && mf.strict == nil && mf.minScore == nil {
		return o
	}
	merged := model.MatchOptions{}
	if o != nil {
		merged = *o
	}
	if mf.verbose != nil {
		merged.Verbose = mf.verbose
	}
	if mf.strict != nil {
		merged.StrictMode = mf.strict
	}
	if mf.minScore != nil {
		merged.MinConfidenceScore = mf.minScore
	}
	return &merged
}
