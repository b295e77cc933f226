package cmd

import (
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/delcain/drawsync/pkg/api"
	"github.com/delcain/drawsync/pkg/engine"
	"github.com/delcain/drawsync/pkg/scheduler"
)

// Config represents the complete application configuration
type Config struct {
	// Logging level
	Logging string `yaml:"logging" default:"info" validate:"oneof=panic fatal warn info debug trace"`
	// MetricsAddr is the address of the Prometheus metrics server (serve mode)
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// HealthCheckAddr enables the health endpoint when set (serve mode)
	HealthCheckAddr string `yaml:"healthCheckAddr"`

	// Engine is the acquisition and query engine configuration
	Engine engine.Config `yaml:"engine"`
	// API is the query API configuration (serve mode)
	API api.Config `yaml:"api"`
	// Scheduler is the periodic sync configuration (serve mode)
	Scheduler scheduler.Config `yaml:"scheduler"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}

	if err := c.API.Validate(); err != nil {
		return err
	}

	return c.Scheduler.Validate()
}

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error: every option has a documented default.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "./drawsync.yaml"
	}

	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}

		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, nil
}
