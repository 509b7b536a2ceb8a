// Package queue defines the contract for enqueuing and consuming approval
// signals.
//
// Implementations may use channels or more advanced structures. The service
// starts with an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/laurel/internal/domain/model"
	"github.com/okian/laurel/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 100000
	defaultBufferSize    = 100000
)

// Signal represents the payload type flowing through the queue.
type Signal = model.Signal

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a signal to the queue.
	// Returns false if the queue is full and the signal was not enqueued.
	Enqueue(ctx context.Context, s Signal) bool

	// Dequeue returns a channel that will receive signals as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Signal

	// Len returns the current number of queued signals.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new signals can be enqueued and the dequeue channel
	// will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	signals    chan Signal
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	// Buffer never exceeds the advertised capacity.
	if q.bufferSize > q.capacity {
		q.bufferSize = q.capacity
	}
	q.signals = make(chan Signal, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a signal to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Signal) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return false
	}

	if len(q.signals) >= q.capacity {
		metrics.RecordQueueEnqueueError("capacity_exceeded")
		return false
	}

	select {
	case q.signals <- s:
		metrics.RecordQueueEnqueue()
		q.publishDepth()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError("context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive signals as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Signal {
	dequeueChan := make(chan Signal)
	go func() {
		defer close(dequeueChan)
		for signal := range q.signals {
			select {
			case dequeueChan <- signal:
				metrics.RecordQueueDequeue()
				q.publishDepth()
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued signals.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.signals)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

func (q *InMemoryQueue) publishDepth() {
	size := len(q.signals)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	close(q.signals)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
