// Package config defines service configuration structures and loading.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Store backends.
const (
	StoreS3     = "s3"
	StoreMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the log store implementation: s3 or memory.
	StoreBackend string `koanf:"store_backend"`

	// LogBucket is the object store bucket holding interaction and
	// outcome records. Required for the s3 backend.
	LogBucket string `koanf:"log_bucket"`

	// QueueSize bounds the in-memory persistence queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of persistence workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the outcome idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// AssistantModel names the Gemini model used for suggestions.
	AssistantModel string `koanf:"assistant_model"`

	// AssistantAPIKey authenticates against the Gemini API. When empty
	// the service falls back to the static offline assistant.
	AssistantAPIKey string `koanf:"assistant_api_key"`

	// AssistantMaxRetries bounds retries on transient assistant errors.
	AssistantMaxRetries int `koanf:"assistant_max_retries"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		StoreBackend:        StoreS3,
		LogBucket:           "ai-eval-logs-dev",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 100,
		AssistantModel:      "gemini-2.5-flash",
		AssistantMaxRetries: 3,
	}
}
