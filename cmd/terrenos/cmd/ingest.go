package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/terrenos/internal/catalog"
)

func ingestCommand() *cobra.Command {
	var (
		listingsPath string
		sourcesPath  string
		storeKind    string
		migrate      bool
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the listing and source payloads into the catalog store",
		Long: "Reads the listings and sources payloads (file paths or http(s) URLs),\n" +
			"validates them and replaces the stored catalog in one transaction.",
		Example: `  # Ingest the configured payloads
  terrenos ingest --config config.yaml

  # Ingest a freshly aggregated dataset, creating the schema first
  terrenos ingest --listings docs/data/listings.json --migrate

  # Build a local SQLite catalog
  terrenos ingest --store sqlite --migrate`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			if listingsPath == "" {
				listingsPath = cfg.Catalog.ListingsPath
			}
			if sourcesPath == "" {
				sourcesPath = cfg.Catalog.SourcesPath
			}
			if storeKind == "" {
				storeKind = cfg.Catalog.Source
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			c, err := catalog.Load(ctx, listingsPath, sourcesPath)
			if err != nil {
				return err
			}

			st, err := openStore(ctx, cfg, storeKind)
			if err != nil {
				return err
			}
			defer st.Close()

			if migrate {
				if err := st.Migrate(ctx); err != nil {
					return fmt.Errorf("running migrations: %w", err)
				}
			}

			imp, err := st.ReplaceCatalog(ctx, c)
			if err != nil {
				return fmt.Errorf("replacing catalog: %w", err)
			}

			log.Info("catalog ingested",
				"store", storeKind,
				"import_id", imp.ID,
				"listings", imp.ListingCount,
				"sources", imp.SourceCount,
				"generated_from", imp.GeneratedFrom,
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&listingsPath, "listings", "", "listings payload (defaults to catalog.listings_path)")
	cmd.Flags().StringVar(&sourcesPath, "sources", "", "sources payload (defaults to catalog.sources_path)")
	cmd.Flags().StringVar(&storeKind, "store", "", "target store: postgres or sqlite (defaults to catalog.source)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before ingesting")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall ingest timeout")

	return cmd
}
