// Package queue buffers history entries between request handlers and the
// persistence workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/pkg/metrics"
)

const defaultCapacity = 10_000

// Entry is the payload type flowing through the queue.
type Entry = model.HistoryEntry

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an entry. It returns false when the queue is full or
	// closed; callers never block.
	Enqueue(ctx context.Context, e Entry) bool

	// Dequeue returns a channel of entries. It is closed once the queue is
	// closed and drained.
	Dequeue() <-chan Entry

	Len() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	entries  chan Entry
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.entries = make(chan Entry, q.capacity)
	metrics.UpdateHistoryQueueSize(0)
	return q
}

// Enqueue adds an entry to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Entry) bool { //nolint:gocritic // hugeParam: entries travel by value
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.entries <- e:
		metrics.UpdateHistoryQueueSize(len(q.entries))
		return true
	case <-ctx.Done():
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns the receive side of the buffer.
func (q *InMemoryQueue) Dequeue() <-chan Entry {
	return q.entries
}

// Len returns the current number of queued entries.
func (q *InMemoryQueue) Len() int {
	size := len(q.entries)
	metrics.UpdateHistoryQueueSize(size)
	return size
}

// Close stops accepting entries. Buffered entries remain readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.entries)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
