package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"headless": true,
		"daily_limit": 15,
		"delay_seconds": 3,
		"approval_ttl_minutes": 10,
		"database_url": "postgres://localhost/apply",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Headless)
	assert.Equal(t, 15, cfg.DailyLimit)
	assert.Equal(t, 3, cfg.DelaySeconds)
	assert.Equal(t, 10, cfg.ApprovalTTLMinute)
	assert.Equal(t, "postgres://localhost/apply", cfg.DatabaseURL)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults are valid", DefaultConfig(), false},
		{"negative daily limit", Config{DailyLimit: -1}, true},
		{"negative delay", Config{DelaySeconds: -2}, true},
		{"disabled approval ttl", Config{ApprovalTTLMinute: -1}, false},
		{"nonsense approval ttl", Config{ApprovalTTLMinute: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{DailyLimit: 5, DatabaseURL: "postgres://localhost/apply"}
	merged := cfg.MergeWithDefaults(DefaultConfig())

	assert.Equal(t, 5, merged.DailyLimit, "explicit values survive the merge")
	assert.Equal(t, "postgres://localhost/apply", merged.DatabaseURL)
	assert.Equal(t, 30, merged.NavigationSeconds)
	assert.Equal(t, "screenshots", merged.ScreenshotDir)
	assert.True(t, merged.Headless)
}

func TestDurationAccessors(t *testing.T) {
	cfg := Config{NavigationSeconds: 30, SettleSeconds: 5, DelaySeconds: 5, ApprovalTTLMinute: 30}
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout())
	assert.Equal(t, 5*time.Second, cfg.SettleTimeout())
	assert.Equal(t, 5*time.Second, cfg.InterAttemptDelay())
	assert.Equal(t, 30*time.Minute, cfg.ApprovalTTL())

	disabled := Config{ApprovalTTLMinute: -1}
	assert.Negative(t, int64(disabled.ApprovalTTL()))
}
