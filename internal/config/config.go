package config

import (
	"time"

	"github.com/feedlens/feedlens/internal/core"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Sources   []SourceEntry   `mapstructure:"sources"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for the libsql event spool.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// SourceEntry is one configured package source. Entries are classification
// input only; feedlens never validates or rewrites them.
type SourceEntry struct {
	Name            string `mapstructure:"name"`
	Location        string `mapstructure:"location"`
	Enabled         bool   `mapstructure:"enabled"`
	ProtocolVersion *int   `mapstructure:"protocol_version"`
}

// Descriptor converts the entry to a classification descriptor.
func (e SourceEntry) Descriptor() core.SourceDescriptor {
	return core.NewSourceDescriptor(e.Name, e.Location, e.Enabled, e.ProtocolVersion)
}

// TelemetryConfig controls how built events are delivered.
type TelemetryConfig struct {
	// Enabled controls whether events are emitted at all
	Enabled bool `mapstructure:"enabled"`

	// SpoolEvents appends built events to the local libsql spool for
	// later shipping instead of only logging them
	SpoolEvents bool `mapstructure:"spool_events"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level
	// Valid values: SIMPLE, STRUCTURED
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	// Enabled controls whether metrics are exposed
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated metrics endpoint port (Prometheus format)
	Port int `mapstructure:"port"`
}

// Descriptors converts all configured sources into classification
// descriptors, preserving order.
func (c *Config) Descriptors() []core.SourceDescriptor {
	if c == nil || len(c.Sources) == 0 {
		return nil
	}

	descriptors := make([]core.SourceDescriptor, 0, len(c.Sources))
	for _, entry := range c.Sources {
		descriptors = append(descriptors, entry.Descriptor())
	}
	return descriptors
}
