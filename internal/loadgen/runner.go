package loadgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/internsim/pkg/logger"
)

// ErrUnhealthy is returned when the target service fails its health check.
var ErrUnhealthy = errors.New("service unhealthy")

// Run checks service health, then submits config.Requests generated
// profiles and returns the collected statistics.
func Run(ctx context.Context, config *Config, log logger.Logger) (*Stats, error) {
	if log == nil {
		log = logger.Get()
	}
	if config.Requests <= 0 {
		return nil, fmt.Errorf("requests must be positive, got %d", config.Requests)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	if err := checkServiceHealth(ctx, config); err != nil {
		return nil, err
	}

	profiles := GenerateProfiles(config.Requests)
	stats.Generated = len(profiles)

	submitProfiles(ctx, config, profiles, stats, log)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "load run completed",
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("invalid", stats.Invalid),
		logger.Float64("successRate", stats.SuccessRate()),
		logger.Duration("meanLatency", stats.MeanLatency()),
		logger.Duration("maxLatency", stats.MaxLatency),
		logger.Duration("duration", stats.Duration))

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load run interrupted: %w", err)
	}
	return stats, nil
}

func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout, "")
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}
