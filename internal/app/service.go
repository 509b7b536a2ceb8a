// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	"gorm.io/gorm"

	signalqueue "github.com/okian/laurel/internal/adapters/mq/queue"
	workerpool "github.com/okian/laurel/internal/adapters/mq/worker"
	repository "github.com/okian/laurel/internal/adapters/repository"
	"github.com/okian/laurel/internal/domain/catalog"
	"github.com/okian/laurel/internal/domain/dedupe"
	"github.com/okian/laurel/internal/domain/evaluator"
	"github.com/okian/laurel/internal/domain/lane"
	"github.com/okian/laurel/internal/domain/model"
	"github.com/okian/laurel/pkg/logger"
	"github.com/okian/laurel/pkg/metrics"
)

// Service implements the API dependencies for the achievement system.
type Service struct {
	mu sync.RWMutex

	// Core components
	db          *gorm.DB
	deduper     dedupe.Deduper
	signalQueue signalqueue.Queue
	lanes       *lane.Lanes
	evaluator   *evaluator.Evaluator
	ledger      *repository.AwardLedger
	workerPool  *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	laneShards  int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDB sets the database handle used by the repository stores.
func WithDB(db *gorm.DB) Option {
	return func(s *Service) {
		if db != nil {
			s.db = db
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the signal queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLaneShards sets the number of per-user serialization shards.
func WithLaneShards(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.laneShards = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 4,
		queueSize:   100000,
		dedupeSize:  50000,
		laneShards:  64,
		stopCh:      make(chan struct{}),
		logger:      nil, // replaced when the service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.db == nil {
		return ErrNoDatabase
	}

	s.logger.Info(ctx, "starting achievement service...")

	directory := repository.NewDirectory(s.db)
	history := repository.NewTaskHistory(s.db)
	s.ledger = repository.NewAwardLedger(s.db)
	catalogStore := repository.NewCatalog(s.db)

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.signalQueue = signalqueue.NewInMemoryQueue(
		signalqueue.WithCapacity(s.queueSize),
		signalqueue.WithBufferSize(s.queueSize),
	)
	s.lanes = lane.New(
		lane.WithShardCount(s.laneShards),
	)
	s.evaluator = evaluator.New(
		directory,
		s.ledger,
		catalogStore,
		history,
		catalog.NewRegistry(),
		evaluator.WithLogger(s.logger.Named("evaluator")),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.signalQueue, s.evaluator, s.lanes)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "achievement service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("laneShards", s.laneShards),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping achievement service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if q, ok := s.signalQueue.(*signalqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "achievement service stopped")
}

// SeenAndRecord atomically checks if a signal id was seen and records it if
// not. Returns true if the signal was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a signal ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a signal for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, signal model.Signal) bool {
	s.logger.Debug(ctx, "enqueueing signal",
		logger.String("signalID", signal.SignalID),
		logger.Uint("userID", signal.UserID),
	)

	success := s.signalQueue.Enqueue(ctx, signal)
	if success {
		metrics.UpdateQueueSize(s.signalQueue.Len(ctx))
	}
	return success
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"laneShards":  s.laneShards,
	}

	if s.started {
		queueLen := s.signalQueue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()

		if totalAwards, err := s.ledger.Count(ctx); err == nil {
			stats["totalAwards"] = totalAwards
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
