package history

import (
	"context"

	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/pkg/logger"
)

// LogSink writes history as structured log lines. It cannot be read back.
type LogSink struct {
	log logger.Logger
}

// NewLogSink creates a sink writing to log.
func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogSink{log: log.Named("history")}
}

// AppendReport logs r at info level.
func (s *LogSink) AppendReport(ctx context.Context, r model.ScoreReport) error {
	s.log.Info(ctx, "score report",
		logger.String("id", r.ID),
		logger.String("user_id", r.UserID),
		logger.String("role", r.Role),
		logger.String("category", string(r.Category)),
		logger.Int("readiness", r.Readiness),
		logger.Int("acceptance", r.AcceptanceProbability),
		logger.Int("percentile", r.MarketPercentile),
	)
	return nil
}

// AppendAudit logs e at info level.
func (s *LogSink) AppendAudit(ctx context.Context, e model.AuditEvent) error {
	s.log.Info(ctx, "audit event",
		logger.String("id", e.ID),
		logger.String("type", string(e.Type)),
		logger.String("user_id", e.UserID),
		logger.Any("metadata", e.Metadata),
	)
	return nil
}
