package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/internsim/internal/domain/category"
	"github.com/okian/internsim/internal/domain/simulation"
	"github.com/okian/internsim/internal/domain/types"
)

var (
	categoryFilter string

	marketCmd = &cobra.Command{
		Use:   "market",
		Short: "Summarize the opportunity corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOrchestrator(cmd.Context(), func(o *simulation.Orchestrator) error {
				snap, err := o.Market(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, types.FromSnapshot(snap))
			})
		},
	}

	opportunitiesCmd = &cobra.Command{
		Use:   "opportunities",
		Short: "List corpus opportunities, optionally for one category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOrchestrator(cmd.Context(), func(o *simulation.Orchestrator) error {
				recs, err := o.Opportunities(cmd.Context(), categoryFilter)
				if err != nil {
					return err
				}
				out := make([]types.Opportunity, len(recs))
				for i, r := range recs {
					out[i] = types.FromRecord(r)
				}
				return printJSON(cmd, out)
			})
		},
	}

	// Roles are static; no corpus is loaded.
	rolesCmd = &cobra.Command{
		Use:   "roles",
		Short: "List the curated target roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, map[string][]string{"roles": category.Roles})
		},
	}
)

func init() {
	opportunitiesCmd.Flags().StringVarP(&categoryFilter, "category", "c", "", "category filter, e.g. \"Backend Development\"")
	rootCmd.AddCommand(marketCmd, opportunitiesCmd, rolesCmd)
}
