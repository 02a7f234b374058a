package cli

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/internsim/internal/loadgen"
	"github.com/okian/internsim/pkg/logger"
)

const (
	defaultRequests       = 1000
	defaultWorkersPerCPU  = 2
	defaultRequestTimeout = 30 * time.Second
)

var (
	loadCfg = loadgen.Config{}

	loadCmd = &cobra.Command{
		Use:   "load",
		Short: "Drive a running simulator with generated candidates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadCfg
			stats, err := loadgen.Run(cmd.Context(), &cfg, logger.Get().Named("load"))
			if err != nil {
				return err
			}
			if err := printJSON(cmd, loadReport{
				Submitted:     stats.Submitted,
				Successful:    stats.Successful,
				Rejected:      stats.Rejected,
				Failed:        stats.Failed,
				Invalid:       stats.Invalid,
				SuccessRate:   stats.SuccessRate(),
				MeanLatencyMS: stats.MeanLatency().Milliseconds(),
				MaxLatencyMS:  stats.MaxLatency.Milliseconds(),
				Duration:      stats.Duration.String(),
			}); err != nil {
				return err
			}
			if stats.Invalid > 0 {
				return fmt.Errorf("%d responses failed verification", stats.Invalid)
			}
			return nil
		},
	}
)

type loadReport struct {
	Submitted     int     `json:"submitted"`
	Successful    int     `json:"successful"`
	Rejected      int     `json:"rejected"`
	Failed        int     `json:"failed"`
	Invalid       int     `json:"invalid"`
	SuccessRate   float64 `json:"successRate"`
	MeanLatencyMS int64   `json:"meanLatencyMs"`
	MaxLatencyMS  int64   `json:"maxLatencyMs"`
	Duration      string  `json:"duration"`
}

func init() {
	f := loadCmd.Flags()
	f.StringVar(&loadCfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	f.IntVarP(&loadCfg.Requests, "requests", "n", defaultRequests, "number of simulations to submit")
	f.IntVarP(&loadCfg.Workers, "workers", "w", runtime.NumCPU()*defaultWorkersPerCPU, "number of concurrent workers")
	f.DurationVar(&loadCfg.Timeout, "timeout", defaultRequestTimeout, "HTTP request timeout")
	f.StringVar(&loadCfg.Token, "token", "", "bearer token; when empty a random X-User-ID is sent per request")
	f.BoolVarP(&loadCfg.Verbose, "verbose", "v", false, "log every failed request")
	rootCmd.AddCommand(loadCmd)
}
