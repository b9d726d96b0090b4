// Package config loads and validates application configuration from config
// files, environment variables and CLI flags.
package config

import (
	"github.com/hugo-lorenzo-mato/veritas/internal/deception"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Detection DetectionConfig `mapstructure:"detection"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Evidence  EvidenceConfig  `mapstructure:"evidence"`
	Server    ServerConfig    `mapstructure:"server"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DetectionConfig exposes the deception detection thresholds. Fields mirror
// deception.Thresholds; unset values fall back to the calibrated baseline.
type DetectionConfig struct {
	Thresholds deception.Thresholds `mapstructure:"thresholds"`
}

// RiskConfig configures longitudinal risk aggregation.
type RiskConfig struct {
	Weights deception.RiskWeights `mapstructure:"weights"`
}

// EvidenceConfig configures the verification-evidence store.
type EvidenceConfig struct {
	// Enabled toggles evidence persistence. Detection still runs when the
	// store is disabled or unavailable.
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database path.
	Path string `mapstructure:"path"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WatchConfig configures the report-directory watcher.
type WatchConfig struct {
	Dir string `mapstructure:"dir"`
}
