package history

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/internsim/internal/adapters/mq/queue"
	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/pkg/logger"
)

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureLogger) record(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, msg)
}

func (c *captureLogger) Info(_ context.Context, msg string, _ ...logger.Field)  { c.record(msg) }
func (c *captureLogger) Error(_ context.Context, msg string, _ ...logger.Field) { c.record(msg) }
func (c *captureLogger) Debug(_ context.Context, msg string, _ ...logger.Field) { c.record(msg) }
func (c *captureLogger) Warn(_ context.Context, msg string, _ ...logger.Field)  { c.record(msg) }
func (c *captureLogger) Fatal(_ context.Context, msg string, _ ...logger.Field) { c.record(msg) }
func (c *captureLogger) Named(string) logger.Logger                             { return c }

func TestRecorder(t *testing.T) {
	Convey("Given a recorder over a one-slot queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		log := &captureLogger{}
		rec := NewRecorder(q, log)

		Convey("The first entry is queued", func() {
			rec.Record(ctx, model.HistoryEntry{Audit: model.AuditEvent{ID: "a"}})
			So(q.Len(), ShouldEqual, 1)
			So(log.lines, ShouldBeEmpty)
		})

		Convey("Overflow is dropped with a warning and never blocks", func() {
			rec.Record(ctx, model.HistoryEntry{Audit: model.AuditEvent{ID: "a"}})
			done := make(chan struct{})
			go func() {
				rec.Record(ctx, model.HistoryEntry{Audit: model.AuditEvent{ID: "b"}})
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("Record blocked on a full queue")
			}
			So(q.Len(), ShouldEqual, 1)
			So(log.lines, ShouldResemble, []string{"history entry dropped"})
		})

		Convey("A cancelled request context still records", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			rec.Record(cctx, model.HistoryEntry{Audit: model.AuditEvent{ID: "a"}})
			So(q.Len(), ShouldEqual, 1)
		})
	})
}

func TestMemorySink(t *testing.T) {
	Convey("Given a memory sink", t, func() {
		ctx := context.Background()
		s := NewMemorySink()
		So(s.AppendReport(ctx, model.ScoreReport{ID: "1", UserID: "u1"}), ShouldBeNil)
		So(s.AppendReport(ctx, model.ScoreReport{ID: "2", UserID: "u2"}), ShouldBeNil)
		So(s.AppendReport(ctx, model.ScoreReport{ID: "3"}), ShouldBeNil)
		So(s.AppendAudit(ctx, model.AuditEvent{Type: model.AuditSimulationRun}), ShouldBeNil)
		So(s.AppendAudit(ctx, model.AuditEvent{Type: model.AuditSimulationRun}), ShouldBeNil)
		So(s.AppendAudit(ctx, model.AuditEvent{Type: model.AuditOfferCompare}), ShouldBeNil)

		Convey("Reports filter by user in insertion order", func() {
			So(s.Reports("u1"), ShouldHaveLength, 1)
			all := s.Reports("")
			So(all, ShouldHaveLength, 3)
			So(all[2].ID, ShouldEqual, "3")
		})

		Convey("Audit events are counted per type", func() {
			counts := s.AuditCounts()
			So(counts[model.AuditSimulationRun], ShouldEqual, 2)
			So(counts[model.AuditOfferCompare], ShouldEqual, 1)
			So(counts[model.AuditBulkSimulation], ShouldEqual, 0)
		})
	})
}

func TestLogSink(t *testing.T) {
	Convey("Given a log sink", t, func() {
		log := &captureLogger{}
		s := NewLogSink(log)
		So(s.AppendReport(context.Background(), model.ScoreReport{ID: "r"}), ShouldBeNil)
		So(s.AppendAudit(context.Background(), model.AuditEvent{ID: "a"}), ShouldBeNil)
		So(log.lines, ShouldResemble, []string{"score report", "audit event"})
	})
}
