package cmd

import (
	"github.com/spf13/cobra"
)

func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the portals and auction sites",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, err := newClient().Sources(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), sources)
			}
			return printSourcesTable(cmd.OutOrStdout(), sources)
		},
	}
}

func communesCmd() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:     "communes",
		Short:   "List the communes of a region",
		Example: `  trn communes --region Maule`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			communes, err := newClient().Communes(cmd.Context(), region)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), communes)
			}
			return printLines(cmd.OutOrStdout(), communes)
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "region (default all)")

	return cmd
}

func facetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Show the values each filter accepts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			facets, err := newClient().Facets(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), facets)
			}
			return printFacets(cmd.OutOrStdout(), facets)
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := newClient().Stats(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), stats)
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}
}
