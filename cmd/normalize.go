package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bbceylan/pinbridge-web-sub000/internal/address"
	"github.com/bbceylan/pinbridge-web-sub000/internal/category"
	"github.com/bbceylan/pinbridge-web-sub000/internal/normalize"
	"github.com/bbceylan/pinbridge-web-sub000/internal/tables"
)

// normalizeOutput shows what the matcher sees for a place.
type normalizeOutput struct {
	Name         string               `json:"name,omitempty"`
	SearchTokens []string             `json:"search_tokens,omitempty"`
	Address      string               `json:"address,omitempty"`
	Components   *address.Components  `json:"address_components,omitempty"`
	Category     *category.Resolution `json:"category,omitempty"`
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Show the normalized name, address components and category of a place",
	Example: `  placematch normalize --name "Joe's Pizza & Pasta, LLC" --address "123 Main St., Springfield, IL 62701" --category "Italian Restaurant"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("normalize"); err != nil {
			return err
		}
		dict, err := tables.Load(cfg.Tables.Path)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		addr, _ := cmd.Flags().GetString("address")
		cat, _ := cmd.Flags().GetString("category")
		if name == "" && addr == "" && cat == "" {
			return eris.New("normalize: at least one of --name, --address or --category is required")
		}
		return runNormalize(cmd.OutOrStdout(), dict, name, addr, cat)
	},
}

func init() {
	normalizeCmd.Flags().String("name", "", "place name")
	normalizeCmd.Flags().String("address", "", "place address")
	normalizeCmd.Flags().String("category", "", "provider category")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(out io.Writer, dict *tables.Dictionary, name, addr, cat string) error {
	norm := normalize.New(dict)

	var res normalizeOutput
	if name != "" {
		res.Name = norm.Name(name)
		res.SearchTokens = norm.SearchTokens(name)
	}
	if addr != "" {
		res.Address = norm.Address(addr)
		c := address.New(dict).Extract(res.Address)
		res.Components = &c
	}
	if cat != "" {
		r := category.New(dict.Categories).Resolve(cat)
		res.Category = &r
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return eris.Wrap(err, "normalize: encode output")
	}
	return nil
}
