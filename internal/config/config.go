// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Browser
	Headless          bool `json:"headless,omitempty"`           // Run Chrome without a window
	NavigationSeconds int  `json:"navigation_seconds,omitempty"` // Page-load timeout per attempt
	SettleSeconds     int  `json:"settle_seconds,omitempty"`     // Wait after the submit click

	// Batch behavior
	DailyLimit        int `json:"daily_limit,omitempty"`          // Max attempts per batch run
	DelaySeconds      int `json:"delay_seconds,omitempty"`        // Pause between attempts
	ApprovalTTLMinute int `json:"approval_ttl_minutes,omitempty"` // Held-approval expiry; -1 disables

	// Behavior
	APIKey        string `json:"api_key,omitempty"`        // Gemini API key for cover-letter drafting
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	ScreenshotDir string `json:"screenshot_dir,omitempty"` // Directory for reviewer snapshots
	Verbose       bool   `json:"verbose,omitempty"`        // Print detailed debug information
}

// DefaultConfig returns the values used when neither the config file nor the
// CLI flags set a field.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		NavigationSeconds: 30,
		SettleSeconds:     5,
		DailyLimit:        20,
		DelaySeconds:      5,
		ApprovalTTLMinute: 30,
		ScreenshotDir:     "screenshots",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.NavigationSeconds < 0 {
		return fmt.Errorf("config error: 'navigation_seconds' must be non-negative")
	}
	if c.SettleSeconds < 0 {
		return fmt.Errorf("config error: 'settle_seconds' must be non-negative")
	}
	if c.DailyLimit < 0 {
		return fmt.Errorf("config error: 'daily_limit' must be non-negative")
	}
	if c.DelaySeconds < 0 {
		return fmt.Errorf("config error: 'delay_seconds' must be non-negative")
	}
	if c.ApprovalTTLMinute < -1 {
		return fmt.Errorf("config error: 'approval_ttl_minutes' must be -1, 0 or positive")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ScreenshotDir == "" {
		result.ScreenshotDir = defaults.ScreenshotDir
	}

	// Int fields: use default if zero
	if result.NavigationSeconds == 0 {
		result.NavigationSeconds = defaults.NavigationSeconds
	}
	if result.SettleSeconds == 0 {
		result.SettleSeconds = defaults.SettleSeconds
	}
	if result.DailyLimit == 0 {
		result.DailyLimit = defaults.DailyLimit
	}
	if result.DelaySeconds == 0 {
		result.DelaySeconds = defaults.DelaySeconds
	}
	if result.ApprovalTTLMinute == 0 {
		result.ApprovalTTLMinute = defaults.ApprovalTTLMinute
	}

	// Bool fields: true wins (false cannot be distinguished from unset)
	if !result.Headless {
		result.Headless = defaults.Headless
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}

// NavigationTimeout returns the page-load timeout as a duration.
func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.NavigationSeconds) * time.Second
}

// SettleTimeout returns the post-submit wait as a duration.
func (c *Config) SettleTimeout() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}

// InterAttemptDelay returns the pause between batch attempts as a duration.
func (c *Config) InterAttemptDelay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// ApprovalTTL returns the held-approval expiry as a duration; -1 in the file
// maps to a negative duration, which disables expiry.
func (c *Config) ApprovalTTL() time.Duration {
	if c.ApprovalTTLMinute < 0 {
		return -1
	}
	return time.Duration(c.ApprovalTTLMinute) * time.Minute
}
