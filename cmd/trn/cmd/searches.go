package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/terrenos/internal/api/handlers"
)

func searchesCmd() *cobra.Command {
	var filterArgs []string

	cmd := &cobra.Command{
		Use:   "searches",
		Short: "Derive portal search links from filters",
		Long: "Builds the canonical search query from the filters and prints one\n" +
			"search link per portal. Portals without a search template link to\n" +
			"their listing page.",
		Example: `  trn searches --filter type=Parcela --filter region=Valparaíso --filter max_price_mm=80`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters, err := handlers.ParseFilters(filterArgs)
			if err != nil {
				return fmt.Errorf("parsing filters: %w", err)
			}

			resp, err := newClient().Searches(cmd.Context(), &filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, resp)
			}

			if resp.Empty {
				fmt.Fprintln(out, "Add a filter or keyword to build a search.")
				return nil
			}

			fmt.Fprintf(out, "Query: %s\n\n", resp.Query.Summary)
			return printSearchesTable(out, resp.Searches)
		},
	}
	cmd.Flags().StringArrayVarP(&filterArgs, "filter", "f", nil, "filters (key=value), repeatable")

	return cmd
}
