// Package worker drains the history queue into a persistence sink.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/internsim/internal/adapters/mq/queue"
	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/pkg/logger"
	"github.com/okian/internsim/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Persistence kinds used in metrics labels.
const (
	KindReport = "report"
	KindAudit  = "audit"
)

// Sink persists history. Implementations must be safe for concurrent use.
type Sink interface {
	AppendReport(ctx context.Context, r model.ScoreReport) error
	AppendAudit(ctx context.Context, e model.AuditEvent) error
}

// Queue defines how workers receive entries.
type Queue interface {
	Dequeue() <-chan queue.Entry
}

// InMemoryWorker persists entries read from a queue.
type InMemoryWorker struct {
	queue Queue
	sink  Sink
	name  string

	done   chan struct{}
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:  q,
		sink:   sink,
		name:   "worker",
		done:   make(chan struct{}),
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run consumes entries until the queue is closed and drained. Sink calls use
// ctx, so cancelling it aborts in-flight writes but not the drain itself.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for e := range w.queue.Dequeue() {
		if err := w.process(ctx, e); err != nil {
			w.logger.Error(ctx, "history persistence failed",
				logger.String("audit_id", e.Audit.ID),
				logger.String("type", string(e.Audit.Type)),
				logger.Error(err),
			)
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// process writes the report before its audit event so readers never see an
// audit row pointing at a missing report.
func (w *InMemoryWorker) process(ctx context.Context, e queue.Entry) error { //nolint:gocritic // hugeParam: entries travel by value
	if e.Report != nil {
		if err := w.sink.AppendReport(ctx, *e.Report); err != nil {
			metrics.RecordHistoryFailure(KindReport)
			return fmt.Errorf("append report %s: %w", e.Report.ID, err)
		}
		metrics.RecordHistoryPersisted(KindReport)
	}
	if err := w.sink.AppendAudit(ctx, e.Audit); err != nil {
		metrics.RecordHistoryFailure(KindAudit)
		return fmt.Errorf("append audit %s: %w", e.Audit.ID, err)
	}
	metrics.RecordHistoryPersisted(KindAudit)
	return nil
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   interface {
		Queue
		Close() error
	}
	logger   logger.Logger
	stopOnce sync.Once
}

// NewPool creates workerCount workers reading from q.
func NewPool(workerCount int, q *queue.InMemoryQueue, sink Sink, log logger.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  log.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, sink,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(log),
		)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		if cerr := p.queue.Close(); cerr != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(cerr))
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
		defer cancel()

		for i, w := range p.workers {
			select {
			case <-w.done:
			case <-shutdownCtx.Done():
				p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
				err = fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
				return
			}
		}
		metrics.UpdateWorkerCount(0)
	})
	return err
}
