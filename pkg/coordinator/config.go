// Package coordinator drives bulk parallel acquisition of draw ranges.
package coordinator

import (
	"errors"
	"time"
)

var (
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
	// ErrInvalidBatchSize is returned when batch size is not positive
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	// ErrInvalidRetryAttempts is returned when retry attempts is negative
	ErrInvalidRetryAttempts = errors.New("retry attempts must not be negative")
	// ErrInvalidRetryBackoff is returned when the retry backoff is not positive
	ErrInvalidRetryBackoff = errors.New("retry backoff must be positive")
)

// Config defines acquisition coordinator configuration
type Config struct {
	// Concurrency bounds the fetch worker pool for one run.
	Concurrency int `yaml:"concurrency" default:"5"`
	// BatchSize is the number of contiguous draws fetched per batch.
	BatchSize int `yaml:"batchSize" default:"50"`
	// RetryAttempts bounds retries of a transient failure for one draw.
	RetryAttempts int `yaml:"retryAttempts" default:"3"`
	// RetryBackoff is the initial retry delay; it doubles per attempt.
	RetryBackoff time.Duration `yaml:"retryBackoff" default:"500ms"`
	// CheckpointInterval is the record count between durable checkpoints.
	// Zero disables checkpointing (incremental catch-up runs).
	CheckpointInterval int `yaml:"checkpointInterval" default:"500"`
}

// Validate checks if the coordinator configuration is valid
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.RetryAttempts < 0 {
		return ErrInvalidRetryAttempts
	}

	if c.RetryBackoff <= 0 {
		return ErrInvalidRetryBackoff
	}

	return nil
}
