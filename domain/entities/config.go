package entities

import (
	"time"
)

// HostConfig holds the embedding host's configuration.
type HostConfig struct {
	// OrchestratorURL is the base URL of the hive training service.
	OrchestratorURL string `yaml:"orchestrator_url" validate:"required,url"`

	// RequestTimeout bounds each orchestrator HTTP request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// StatusInterval is how often outstanding runs are refreshed from the
	// orchestrator.
	StatusInterval time.Duration `yaml:"status_interval"`

	// LogLevel is the logging verbosity level ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
}

// DefaultHostConfig returns the default host configuration.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		RequestTimeout: 30 * time.Second,
		StatusInterval: 5 * time.Second,
		LogLevel:       "info",
	}
}

// HostConfigOption is a functional option for configuring the host.
type HostConfigOption func(*HostConfig)

// WithOrchestratorURL sets the hive service base URL.
func WithOrchestratorURL(url string) HostConfigOption {
	return func(c *HostConfig) {
		c.OrchestratorURL = url
	}
}

// WithRequestTimeout sets the per-request timeout for orchestrator calls.
func WithRequestTimeout(d time.Duration) HostConfigOption {
	return func(c *HostConfig) {
		if d > 0 {
			c.RequestTimeout = d
		}
	}
}

// WithLogLevel sets the logging verbosity level.
func WithLogLevel(level string) HostConfigOption {
	return func(c *HostConfig) {
		c.LogLevel = level
	}
}

// NewHostConfig creates a HostConfig from defaults and options.
func NewHostConfig(opts ...HostConfigOption) HostConfig {
	cfg := DefaultHostConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
