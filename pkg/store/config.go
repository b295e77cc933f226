// Package store implements the durable, ordered, deduplicated collection
// of draw records backed by a human-diffable JSON file.
package store

import "errors"

// ErrDirRequired is returned when no data directory is configured
var ErrDirRequired = errors.New("store data directory is required")

const (
	dataFileName       = "megasena_historical.json"
	checkpointFileName = "checkpoint.json"
	csvFileName        = "megasena_historical.csv"
)

// Config holds draw store configuration
type Config struct {
	// Dir is the directory holding the persisted store and checkpoint marker.
	Dir string `yaml:"dir" default:"data"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dir == "" {
		return ErrDirRequired
	}

	return nil
}
