package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/simulation"
	"github.com/okian/internsim/internal/domain/types"
)

var (
	profileFile  string
	profilesFile string

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Score one candidate profile",
		Example: `  simctl simulate --profile candidate.json
  simctl simulate --profile candidate.json --corpus data/opportunities.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req types.SimulateRequest
			if err := readJSONFile(profileFile, &req); err != nil {
				return err
			}
			return withOrchestrator(cmd.Context(), func(o *simulation.Orchestrator) error {
				report, err := o.Simulate(cmd.Context(), userID, req.ToProfile())
				if err != nil {
					return err
				}
				return printJSON(cmd, types.FromReport(report))
			})
		},
	}

	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Score many candidate profiles",
		Long:  `batch reads {"candidates":[...]} and scores every candidate against one corpus snapshot.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req types.BatchRequest
			if err := readJSONFile(profilesFile, &req); err != nil {
				return err
			}
			if len(req.Candidates) == 0 {
				return errors.New("no candidates in " + profilesFile)
			}
			profiles := make([]model.CandidateProfile, len(req.Candidates))
			for i, c := range req.Candidates {
				profiles[i] = c.ToProfile()
			}
			return withOrchestrator(cmd.Context(), func(o *simulation.Orchestrator) error {
				results, err := o.Batch(cmd.Context(), userID, profiles)
				if err != nil {
					return err
				}
				out := types.BatchResponse{Results: make([]types.BatchItem, len(results))}
				for i, res := range results {
					out.Results[i] = types.NewBatchItem(res.Index, res.Report, res.Err)
				}
				return printJSON(cmd, out)
			})
		},
	}
)

func init() {
	simulateCmd.Flags().StringVarP(&profileFile, "profile", "p", "", "candidate profile JSON file")
	_ = simulateCmd.MarkFlagRequired("profile")

	batchCmd.Flags().StringVarP(&profilesFile, "profiles", "p", "", "batch request JSON file")
	_ = batchCmd.MarkFlagRequired("profiles")

	rootCmd.AddCommand(simulateCmd, batchCmd)
}
