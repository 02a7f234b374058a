package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/internsim/internal/adapters/history"
	app "github.com/okian/internsim/internal/app"
	"github.com/okian/internsim/internal/domain/types"
)

var (
	historyPage int

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List the stored reports of --user, newest first",
		Long: `history pages through the reports stored for --user, six per page, with
the run count, mean readiness and peak acceptance over every stored run.
The memory sink only holds what the current process recorded, so history
is meant for history_sink: postgres.`,
		Example: `  simctl history --user student-1 --page 2 --config prod.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errors.New("history needs --user")
			}
			if historyPage < 1 {
				return fmt.Errorf("--page must be positive, got %d", historyPage)
			}
			return withService(cmd.Context(), func(svc *app.Service) error {
				reader, err := svc.History()
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				reports, err := reader.ListReports(ctx, userID, history.PageSize, (historyPage-1)*history.PageSize)
				if err != nil {
					return err
				}
				sum, err := reader.Summary(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(cmd, types.NewHistoryResponse(historyPage, history.PageSize, types.HistorySummary{
					TotalRuns:      sum.TotalRuns,
					AvgReadiness:   sum.AvgReadiness,
					PeakAcceptance: sum.PeakAcceptance,
				}, reports))
			})
		},
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyPage, "page", 1, "1-based page number")
	rootCmd.AddCommand(historyCmd)
}
