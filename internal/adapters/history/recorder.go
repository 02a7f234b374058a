package history

import (
	"context"

	"github.com/okian/internsim/internal/adapters/mq/queue"
	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/pkg/logger"
	"github.com/okian/internsim/pkg/metrics"
)

// Recorder hands entries to the persistence queue without blocking. When
// the queue is full the entry is dropped, logged and counted.
type Recorder struct {
	queue queue.Queue
	log   logger.Logger
}

// NewRecorder creates a recorder over q.
func NewRecorder(q queue.Queue, log logger.Logger) *Recorder {
	if log == nil {
		log = logger.NewNop()
	}
	return &Recorder{queue: q, log: log.Named("history")}
}

// Record enqueues entry.
func (r *Recorder) Record(ctx context.Context, entry model.HistoryEntry) {
	// Request cancellation must not discard history for work already done.
	if r.queue.Enqueue(context.WithoutCancel(ctx), entry) {
		return
	}
	metrics.RecordHistoryDropped()
	r.log.Warn(ctx, "history entry dropped",
		logger.String("audit_id", entry.Audit.ID),
		logger.String("type", string(entry.Audit.Type)),
		logger.Int("queue_len", r.queue.Len()),
	)
}
