package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/terrenos/internal/api/handlers"
)

func listingsCmd() *cobra.Command {
	listingsRoot := &cobra.Command{
		Use:   "listings",
		Short: "Query listings",
		Long: "Filter and rank the land listings served by the terrenos API.\n" +
			"Stats always cover the whole catalog.",
	}

	listingsRoot.AddCommand(
		listingsListCmd(),
		listingsGetCmd(),
	)

	return listingsRoot
}

func listingsListCmd() *cobra.Command {
	var filterArgs []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings matching the filters",
		Long: "List listings with optional key=value filters. Keys: type, region,\n" +
			"commune, origin, min_price_mm, max_price_mm, min_area_m2, max_area_m2,\n" +
			"keywords, sort.",
		Example: `  # List every listing, newest first
  trn listings list

  # Remates in one region, best opportunities first
  trn listings list --filter region=Maule --filter origin=remate --filter sort=opportunity

  # Parcels between 40 and 80 MM
  trn listings list --filter type=Parcela --filter min_price_mm=40 --filter max_price_mm=80`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters, err := handlers.ParseFilters(filterArgs)
			if err != nil {
				return fmt.Errorf("parsing filters: %w", err)
			}

			resp, err := newClient().ListListings(cmd.Context(), &filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, resp)
			}

			if len(resp.Listings) == 0 {
				fmt.Fprintln(out, "No listings found.")
				return nil
			}

			fmt.Fprintf(out, "Showing %d of %d listings (%d%% remates)\n\n",
				resp.Matched, resp.Stats.Total, resp.Stats.RemateSharePct)
			return printListingsTable(out, resp.Listings)
		},
	}
	cmd.Flags().StringArrayVarP(&filterArgs, "filter", "f", nil, "filters (key=value), repeatable")

	return cmd
}

func listingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show listing details",
		Example: `  trn listings get PORTALA-102`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newClient().GetListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), l)
			}

			return printListingDetail(cmd.OutOrStdout(), l)
		},
	}
}
