// Package scheduler runs periodic sync runs in serve mode.
package scheduler

import (
	"errors"
	"time"
)

var (
	// ErrScheduleRequired is returned when no cron schedule is configured
	ErrScheduleRequired = errors.New("sync schedule is required")
	// ErrInvalidLockTTL is returned when the lock TTL is not positive
	ErrInvalidLockTTL = errors.New("lock TTL must be positive")
)

// RedisConfig holds the optional Redis connection for the sync-run lock
type RedisConfig struct {
	URL string `yaml:"url"`
}

// Config defines scheduler configuration
type Config struct {
	// Schedule is a cron expression; @every forms are accepted.
	Schedule string `yaml:"schedule" default:"@every 6h"`
	// SyncOnStart triggers one sync immediately when the scheduler starts.
	SyncOnStart bool `yaml:"syncOnStart" default:"true"`
	// Redis enables the distributed run lock when a URL is set. Without
	// it, overlap protection is process-local only.
	Redis RedisConfig `yaml:"redis"`
	// LockTTL is the lease duration of the run lock; it must exceed the
	// longest expected sync run or the lease is renewed mid-run.
	LockTTL time.Duration `yaml:"lockTTL" default:"15m"`
}

// Validate checks if the scheduler configuration is valid
func (c *Config) Validate() error {
	if c.Schedule == "" {
		return ErrScheduleRequired
	}

	if c.LockTTL <= 0 {
		return ErrInvalidLockTTL
	}

	return nil
}
