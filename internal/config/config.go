// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseDSN configures the sqlite database, e.g. "laurel.db" or
	// "file::memory:?cache=shared" for ephemeral runs.
	DatabaseDSN string `koanf:"database_dsn"`

	// SignalQueueSize bounds the in-memory completion-signal queue.
	SignalQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the signal deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// LaneShards sets the number of shards in the per-user lane lock.
	LaneShards int `koanf:"lane_shards"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		DatabaseDSN:     "laurel.db",
		SignalQueueSize: 100_000,
		WorkerCount:     runtime.NumCPU() * 4,
		DedupeSize:      500_000,
		LaneShards:      64,
	}
	return c
}
