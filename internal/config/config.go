package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultFastModel    = "claude-3-5-haiku-latest"
	defaultQualityModel = "claude-3-7-sonnet-latest"
	defaultTimeoutSecs  = 120
	defaultIterations   = 3
)

// ModelsConfig maps the two recognized tiers to concrete model IDs.
type ModelsConfig struct {
	Fast    string `yaml:"fast"`    // planning/orchestration text
	Quality string `yaml:"quality"` // drafting, editing, promotional writing
}

// AnalysisConfig controls the optional codebase-analysis step.
type AnalysisConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"` // default true
}

// QuillConfig represents the top-level quill.yml configuration
type QuillConfig struct {
	Version       string          `yaml:"version"`
	Models        ModelsConfig    `yaml:"models"`
	MaxIterations *int            `yaml:"max_iterations,omitempty"` // bound on retry loops (default 3)
	Analysis      *AnalysisConfig `yaml:"analysis,omitempty"`
	TimeoutSecs   *int            `yaml:"generation_timeout_seconds,omitempty"`
	RedisURL      string          `yaml:"redis_url,omitempty"` // optional persistent blackboard
	SearchEnabled bool            `yaml:"search_enabled,omitempty"`
}

// Default returns the configuration used when no quill.yml is present.
func Default() *QuillConfig {
	cfg := &QuillConfig{Version: "1.0"}
	// Validate fills in every default.
	_ = cfg.Validate()
	return cfg
}

// Validate performs strict validation and applies defaults in place.
func (c *QuillConfig) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Models.Fast == "" {
		c.Models.Fast = defaultFastModel
	}
	if c.Models.Quality == "" {
		c.Models.Quality = defaultQualityModel
	}

	if c.MaxIterations == nil {
		n := defaultIterations
		c.MaxIterations = &n
	}
	if *c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be >= 1, got %d", *c.MaxIterations)
	}

	if c.Analysis == nil {
		c.Analysis = &AnalysisConfig{}
	}
	if c.Analysis.Enabled == nil {
		enabled := true
		c.Analysis.Enabled = &enabled
	}

	if c.TimeoutSecs == nil {
		n := defaultTimeoutSecs
		c.TimeoutSecs = &n
	}
	if *c.TimeoutSecs < 1 {
		return fmt.Errorf("generation_timeout_seconds must be >= 1, got %d", *c.TimeoutSecs)
	}

	return nil
}

// Timeout returns the per-generation-call deadline.
func (c *QuillConfig) Timeout() time.Duration {
	return time.Duration(*c.TimeoutSecs) * time.Second
}

// Load reads and validates quill.yml from the specified path
func Load(path string) (*QuillConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config QuillConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
