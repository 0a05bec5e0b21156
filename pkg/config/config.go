// Package config loads and validates the YAML configuration of treediff.
package config

import (
	"time"

	"github.com/sdejongh/treediff/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	Content       models.ContentMethod `yaml:"content"`
	SecurityLabel SecurityLabelConfig  `yaml:"security_label"`
}

// SecurityLabelConfig selects the extended attribute read as the label
type SecurityLabelConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Attribute string `yaml:"attribute"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int   `yaml:"max_workers"`
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // bytes/s, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "json" or "human"
	Progress bool   `yaml:"progress"` // progress bar on stderr
	Color    bool   `yaml:"color"`    // colored human output on terminals
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`   // log file path (empty = no log file)
	MaxSize    int64  `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Content: models.ContentFull,
			SecurityLabel: SecurityLabelConfig{
				Enabled:   true,
				Attribute: "security.selinux",
			},
		},
		Performance: PerformanceConfig{
			MaxWorkers:     5,
			BufferSize:     65536,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "json",
			Progress: false,
			Color:    true,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Compare.Content {
	case models.ContentFull, models.ContentStreaming, models.ContentHash:
	default:
		return &models.ValidationError{
			Field:   "compare.content",
			Message: "must be 'full', 'streaming', or 'hash'",
		}
	}

	if c.Compare.SecurityLabel.Enabled && c.Compare.SecurityLabel.Attribute == "" {
		return &models.ValidationError{
			Field:   "compare.security_label.attribute",
			Message: "required when security labels are enabled",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "cannot be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size",
			Message: "rotation limits cannot be negative",
		}
	}

	return nil
}

// Operation builds the diff operation for two roots from the configuration
func (c *Config) Operation(id, originalPath, newPath string) *models.DiffOperation {
	return &models.DiffOperation{
		ID:            id,
		OriginalPath:  originalPath,
		NewPath:       newPath,
		ContentMethod: c.Compare.Content,
		Labels: models.LabelOptions{
			Enabled:   c.Compare.SecurityLabel.Enabled,
			Attribute: c.Compare.SecurityLabel.Attribute,
		},
		ExcludePatterns: append([]string(nil), c.Exclude...),
		MaxWorkers:      c.Performance.MaxWorkers,
		BandwidthLimit:  c.Performance.BandwidthLimit,
		BufferSize:      c.Performance.BufferSize,
		CreatedAt:       time.Now(),
	}
}
