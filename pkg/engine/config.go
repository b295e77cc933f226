// Package engine exposes the draw synchronization engine: acquisition,
// local persistence, and the historical query surface built on top.
package engine

import (
	"errors"

	"github.com/delcain/drawsync/pkg/caixa"
	"github.com/delcain/drawsync/pkg/coordinator"
	"github.com/delcain/drawsync/pkg/store"
)

var (
	// ErrInvalidThreshold is returned when the bootstrap threshold is not positive
	ErrInvalidThreshold = errors.New("bootstrap threshold must be positive")
	// ErrInvalidIncrementalConcurrency is returned when incremental concurrency is not positive
	ErrInvalidIncrementalConcurrency = errors.New("incremental concurrency must be positive")
)

// Config represents the complete engine configuration
type Config struct {
	// Source is the remote results API client configuration.
	Source caixa.Config `yaml:"source"`
	// Store is the local draw store configuration.
	Store store.Config `yaml:"store"`
	// Acquisition configures the bootstrap batch coordinator.
	Acquisition coordinator.Config `yaml:"acquisition"`

	// BootstrapThreshold is the local/remote gap above which a full
	// checkpointed bootstrap is selected instead of incremental catch-up.
	BootstrapThreshold int `yaml:"bootstrapThreshold" default:"100"`
	// IncrementalConcurrency bounds the worker pool for incremental runs.
	IncrementalConcurrency int `yaml:"incrementalConcurrency" default:"1"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}

	if err := c.Store.Validate(); err != nil {
		return err
	}

	if err := c.Acquisition.Validate(); err != nil {
		return err
	}

	if c.BootstrapThreshold <= 0 {
		return ErrInvalidThreshold
	}

	if c.IncrementalConcurrency <= 0 {
		return ErrInvalidIncrementalConcurrency
	}

	return nil
}
