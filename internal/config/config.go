// Package config provides configuration management for the review pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources             = errors.New("at least one source is required")
	ErrNoEnabledSources      = errors.New("at least one source must be enabled")
	ErrSourceMissingSite     = errors.New("site must be 'opentable' or 'yelp'")
	ErrSourceMissingFiles    = errors.New("restaurants_file and reviews_file are required")
	ErrDuplicateSourceSite   = errors.New("each site may appear at most once")
	ErrMissingRawDir         = errors.New("paths.raw_dir is required")
	ErrMissingCuratedDir     = errors.New("paths.curated_dir is required")
	ErrMissingDatabasePath   = errors.New("paths.database is required")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidOnMalformed    = errors.New("transform.on_malformed must be 'skip' or 'fail'")
	ErrInvalidDefaultCeiling = errors.New("transform.price_ceiling must be positive")
)

// Malformed-field policies.
const (
	OnMalformedSkip = "skip"
	OnMalformedFail = "fail"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Sources   []SourceConfig  `yaml:"sources"`
	Transform TransformConfig `yaml:"transform"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PathsConfig locates the raw inputs, curated outputs and the database.
type PathsConfig struct {
	RawDir     string `yaml:"raw_dir"`
	CuratedDir string `yaml:"curated_dir"`
	Database   string `yaml:"database"`
}

// SourceConfig names one review site's raw scrape files inside raw_dir.
type SourceConfig struct {
	Site            string `yaml:"site"`
	RestaurantsFile string `yaml:"restaurants_file"`
	ReviewsFile     string `yaml:"reviews_file"`
	Enabled         bool   `yaml:"enabled"`
}

// RestaurantsPath returns the absolute raw restaurants file for this source.
func (s *SourceConfig) RestaurantsPath(rawDir string) string {
	return filepath.Join(rawDir, s.RestaurantsFile)
}

// ReviewsPath returns the absolute raw reviews file for this source.
func (s *SourceConfig) ReviewsPath(rawDir string) string {
	return filepath.Join(rawDir, s.ReviewsFile)
}

// TransformConfig tunes the field transformer.
type TransformConfig struct {
	OnMalformed  string `yaml:"on_malformed"`
	PriceCeiling int    `yaml:"price_ceiling"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Transform.OnMalformed == "" {
		c.Transform.OnMalformed = OnMalformedSkip
	}

	if c.Transform.PriceCeiling == 0 {
		c.Transform.PriceCeiling = 200
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths.RawDir == "" {
		return ErrMissingRawDir
	}

	if c.Paths.CuratedDir == "" {
		return ErrMissingCuratedDir
	}

	if c.Paths.Database == "" {
		return ErrMissingDatabasePath
	}

	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	enabledCount := 0
	seen := map[string]bool{}

	for i, src := range c.Sources {
		if src.Site != "opentable" && src.Site != "yelp" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingSite, i)
		}

		if src.RestaurantsFile == "" || src.ReviewsFile == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingFiles, i)
		}

		if seen[src.Site] {
			return fmt.Errorf("%w: source[%d] %s", ErrDuplicateSourceSite, i, src.Site)
		}

		seen[src.Site] = true

		if src.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if c.Transform.OnMalformed != OnMalformedSkip && c.Transform.OnMalformed != OnMalformedFail {
		return ErrInvalidOnMalformed
	}

	if c.Transform.PriceCeiling < 1 {
		return ErrInvalidDefaultCeiling
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetEnabledSources returns only enabled sources.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// SourceBySite returns the enabled source for the given site, if any.
func (c *Config) SourceBySite(site string) (SourceConfig, bool) {
	for _, src := range c.Sources {
		if src.Enabled && src.Site == site {
			return src, true
		}
	}

	return SourceConfig{}, false
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, RawDir: %s, Database: %s}",
		len(c.Sources),
		c.Paths.RawDir,
		c.Paths.Database,
	)
}
