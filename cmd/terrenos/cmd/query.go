package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/terrenos/internal/api/handlers"
	"github.com/donaldgifford/terrenos/internal/catalog"
	"github.com/donaldgifford/terrenos/internal/engine"
	domain "github.com/donaldgifford/terrenos/pkg/types"
)

func queryCommand() *cobra.Command {
	var (
		filterArgs []string
		region     string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter and rank the catalog locally, without a server",
		Long: "Loads the configured catalog payloads, applies the filters and prints\n" +
			"the ranked listings, the derived search query and the portal links as JSON.",
		Example: `  # Opportunities in one region
  terrenos query --region "Valparaíso" --filter sort=opportunity

  # Parcels under 80 MM with water
  terrenos query --filter type=Parcela --filter max_price_mm=80 --filter keywords=agua`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}

			params, err := handlers.ParseFilters(filterArgs)
			if err != nil {
				return fmt.Errorf("parsing filters: %w", err)
			}
			state, err := params.State()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Catalog.LoadTimeout)
			defer cancel()

			c, err := catalog.Load(ctx, cfg.Catalog.ListingsPath, cfg.Catalog.SourcesPath)
			if err != nil {
				return err
			}

			sess := engine.NewEngine(c, engine.WithLogger(log)).NewSession()
			res, err := applyQuery(ctx, sess, state, region)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringArrayVar(&filterArgs, "filter", nil, "filters (key=value), repeatable")
	cmd.Flags().StringVar(&region, "region", "", "select a region, resetting the commune")

	return cmd
}

// applyQuery installs state into the session, then selects the region when
// one is given so the commune resets exactly as a region change does.
func applyQuery(
	ctx context.Context,
	sess *engine.Session,
	state domain.FilterState,
	region string,
) (*engine.Result, error) {
	res, err := sess.Update(ctx, func(s *domain.FilterState) { *s = state })
	if err != nil {
		return nil, err
	}
	if region == "" {
		return res, nil
	}
	return sess.SelectRegion(ctx, domain.Selection(region))
}
