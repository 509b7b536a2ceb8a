// Package lane provides a keyed lock that serializes evaluations per user.
//
// Two signals for the same user must never run their check-then-award
// sequence concurrently; the ledger's unique constraint is the backstop, but
// serializing up front avoids burning reads on evaluations that can only
// no-op.
package lane

import (
	"sync"
)

// Default lane configuration constants.
const (
	defaultShardCount = 64
)

// Lanes is a fixed set of mutex shards addressed by user id. Users that hash
// to the same shard serialize together; at the default shard count that
// contention is negligible next to the history reads an evaluation performs.
type Lanes struct {
	shards     []sync.Mutex
	shardCount uint
}

// Option applies a configuration option to Lanes.
type Option func(*Lanes)

// WithShardCount sets the number of mutex shards.
func WithShardCount(count int) Option {
	return func(l *Lanes) {
		if count > 0 {
			l.shardCount = uint(count)
		}
	}
}

// New creates a lane set with configuration options.
func New(opts ...Option) *Lanes {
	l := &Lanes{
		shardCount: defaultShardCount,
	}

	// Apply all options
	for _, opt := range opts {
		opt(l)
	}

	l.shards = make([]sync.Mutex, l.shardCount)
	return l
}

// Acquire blocks until the lane for key is free, takes it, and returns the
// release function. Callers must release exactly once.
func (l *Lanes) Acquire(key uint) func() {
	shard := &l.shards[key%l.shardCount]
	shard.Lock()
	return shard.Unlock
}

// ShardCount returns the configured number of shards.
func (l *Lanes) ShardCount() int {
	return int(l.shardCount)
}
