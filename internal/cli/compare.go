package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/internsim/internal/domain/simulation"
	"github.com/okian/internsim/internal/domain/types"
)

const offerFactors = 4

var (
	offerA []int
	offerB []int

	compareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Compare the growth index of two offers",
		Long: `compare scores two offers from their learning, brand, tech stack and
network factors, each on a 1-5 scale. The comparison is audited to the
configured history sink, so the service starts with its corpus like simulate.`,
		Example: `  simctl compare --offer-a 5,5,5,5 --offer-b 1,1,1,1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := parseOffer("offer-a", offerA)
			if err != nil {
				return err
			}
			b, err := parseOffer("offer-b", offerB)
			if err != nil {
				return err
			}
			return withOrchestrator(cmd.Context(), func(orch *simulation.Orchestrator) error {
				res, err := orch.CompareOffers(cmd.Context(), userID, a, b)
				if err != nil {
					return err
				}
				return printJSON(cmd, types.CompareResponse{GrowthA: res.GrowthA, GrowthB: res.GrowthB})
			})
		},
	}
)

func parseOffer(flag string, v []int) (simulation.OfferInput, error) {
	if len(v) != offerFactors {
		return simulation.OfferInput{}, fmt.Errorf("--%s wants learning,brand,techStack,network; got %d values", flag, len(v))
	}
	return simulation.OfferInput{Learning: v[0], Brand: v[1], TechStack: v[2], Network: v[3]}, nil
}

func init() {
	compareCmd.Flags().IntSliceVar(&offerA, "offer-a", nil, "first offer factors: learning,brand,techStack,network")
	compareCmd.Flags().IntSliceVar(&offerB, "offer-b", nil, "second offer factors: learning,brand,techStack,network")
	_ = compareCmd.MarkFlagRequired("offer-a")
	_ = compareCmd.MarkFlagRequired("offer-b")
	rootCmd.AddCommand(compareCmd)
}
