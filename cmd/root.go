package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bbceylan/pinbridge-web-sub000/internal/config"
	"github.com/bbceylan/pinbridge-web-sub000/internal/match"
	"github.com/bbceylan/pinbridge-web-sub000/internal/tables"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "placematch",
	Short: "Match saved places against mapping-provider candidates",
	Long:  "Scores candidate places from external mapping providers against a saved place by name, address, distance and category, and ranks them by calibrated confidence.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newEngine loads the configured dictionary and builds a matching engine.
func newEngine(c *config.Config) (*match.Engine, error) {
	dict, err := tables.Load(c.Tables.Path)
	if err != nil {
		return nil, err
	}
	return match.New(c.Matcher, dict)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
