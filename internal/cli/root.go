// Package cli implements simctl, the command line client of the
// readiness simulator.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	app "github.com/okian/internsim/internal/app"
	"github.com/okian/internsim/internal/config"
	"github.com/okian/internsim/internal/domain/simulation"
	"github.com/okian/internsim/pkg/logger"
)

const (
	appName     = "simctl"
	stopTimeout = 10 * time.Second
)

var (
	// Used for flags.
	cfgFile    string
	corpusFile string
	userID     string
	debug      bool
	jsonLogs   bool

	// serviceOptions are appended to every locally started service.
	serviceOptions []app.Option

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "simctl scores internship candidates against an opportunity corpus",
		Long: `simctl runs readiness simulations, market summaries and offer comparisons
locally against the configured corpus, and can drive a running simulator
with generated load.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			format := logger.FormatText
			if jsonLogs {
				format = logger.FormatJSON
			}
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(format)); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			level := "warn"
			if debug {
				level = "debug"
			}
			return logger.SetLevelString(level)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext executes the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv(config.EnvConfigFile), "config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&corpusFile, "corpus", "", "opportunity corpus JSON file; overrides the configured source")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "user id recorded with simulations")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logs")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "emit logs as JSON")
}

// withService starts a local service for the duration of fn. Stop drains
// pending history before the command returns.
func withService(ctx context.Context, fn func(*app.Service) error) error {
	cfg, err := config.LoadFile(ctx, cfgFile)
	if err != nil {
		return err
	}
	if corpusFile != "" {
		cfg.CorpusSource = config.SourceFile
		cfg.CorpusFile = corpusFile
	}
	// One-shot commands never outlive a refresh interval.
	cfg.CorpusRefresh = 0

	opts := append([]app.Option{app.WithLogger(logger.Get())}, serviceOptions...)
	svc := app.New(cfg, opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer cancel()
		svc.Stop(stopCtx)
	}()

	return fn(svc)
}

// withOrchestrator is withService for commands that only score.
func withOrchestrator(ctx context.Context, fn func(*simulation.Orchestrator) error) error {
	return withService(ctx, func(svc *app.Service) error {
		orch, err := svc.Orchestrator()
		if err != nil {
			return err
		}
		return fn(orch)
	})
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
