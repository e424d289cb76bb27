package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/terrenos/internal/catalog"
	"github.com/donaldgifford/terrenos/pkg/aggregate"
)

func aggregateCommand() *cobra.Command {
	var (
		rawDir string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Build the listings dataset from raw portal and auction exports",
		Long: "Parses portal_a.json, portal_b.json and remates.json from the raw\n" +
			"directory, in that order, and writes the unified listings payload.",
		Example: `  terrenos aggregate --raw data/raw --out docs/data/listings.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			if out == "" {
				out = cfg.Catalog.ListingsPath
			}

			ds, err := aggregate.Run(rawDir, aggregate.DefaultParsers())
			if err != nil {
				return err
			}
			if err := catalog.ValidateListings(ds.Listings); err != nil {
				return fmt.Errorf("validating aggregated listings: %w", err)
			}

			if out == "-" {
				return ds.Write(cmd.OutOrStdout())
			}
			if err := ds.WriteFile(out); err != nil {
				return err
			}

			stats := catalog.ComputeStats(ds.Listings)
			log.Info("dataset written",
				"path", out,
				"listings", stats.Total,
				"remates", stats.Remates,
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&rawDir, "raw", "data/raw", "directory holding the raw exports")
	cmd.Flags().StringVar(&out, "out", "", "output path, - for stdout (defaults to catalog.listings_path)")

	return cmd
}
