package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	var (
		storeKind string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog store schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			if storeKind == "" {
				storeKind = cfg.Catalog.Source
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			st, err := openStore(ctx, cfg, storeKind)
			if err != nil {
				return err
			}
			defer st.Close()

			log.Info("running migrations", "store", storeKind)

			if err := st.Migrate(ctx); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			log.Info("migrations complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&storeKind, "store", "", "store to migrate: postgres or sqlite (defaults to catalog.source)")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "overall migration timeout")

	return cmd
}
