// Package caixa implements the client for the Caixa lottery results API.
package caixa

import (
	"errors"
	"time"
)

var (
	// ErrBaseURLRequired is returned when no base URL is configured
	ErrBaseURLRequired = errors.New("source base URL is required")
	// ErrInvalidTimeout is returned when the fetch timeout is not positive
	ErrInvalidTimeout = errors.New("fetch timeout must be positive")
	// ErrInvalidRateLimit is returned when the rate limit is not positive
	ErrInvalidRateLimit = errors.New("rate limit must be positive")
)

// Config holds remote source client configuration
type Config struct {
	// BaseURL is the root of the lottery results API.
	BaseURL string `yaml:"baseUrl" default:"https://servicebus2.caixa.gov.br/portaldeloterias/api/megasena"`
	// Timeout applies per individual fetch, not per batch or per run.
	Timeout time.Duration `yaml:"timeout" default:"10s"`
	// RateLimit caps outbound requests per second across all workers.
	RateLimit float64 `yaml:"rateLimit" default:"10"`
	// RateBurst is the burst allowance of the rate limiter.
	RateBurst int `yaml:"rateBurst" default:"5"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return ErrInvalidRateLimit
	}

	return nil
}
