package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, 5003, cfg.Port)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, "/static", cfg.PublicPrefix)
	assert.Equal(t, 18, cfg.MaxImages)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.WatchSettings)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_IMAGES", "6")
	t.Setenv("STATIC_DIR", "/srv/wall")
	t.Setenv("PUBLIC_PREFIX", "assets/")
	t.Setenv("WATCH_SETTINGS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 6, cfg.MaxImages)
	assert.Equal(t, "/assets", cfg.PublicPrefix)
	assert.False(t, cfg.WatchSettings)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"zero max images", "MAX_IMAGES", "0", "MAX_IMAGES must be at least 1"},
		{"port out of range", "PORT", "70000", "PORT must be between 0 and 65535"},
		{"non numeric max images", "MAX_IMAGES", "lots", "failed to load environment variables"},
		{"zero submission rate", "SUBMISSION_RATE", "0", "SUBMISSION_RATE and SUBMISSION_BURST must be positive"},
		{"zero connections", "MAX_WEBSOCKET_CONNECTIONS", "0", "MAX_WEBSOCKET_CONNECTIONS must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	cfg := &Config{StaticDir: "static", PublicPrefix: "/static"}

	assert.Equal(t, filepath.Join("static", "css", "main.css"), cfg.StyleSheetPath())
	assert.Equal(t, filepath.Join("static", "js", "screen.js"), cfg.ScriptPath())
	assert.Equal(t, filepath.Join("static", "js", "config.json"), cfg.NetworkConfigPath())
	assert.Equal(t, filepath.Join("static", "doodles"), cfg.DoodleDir())
	assert.Equal(t, filepath.Join("static", "background"), cfg.BackgroundDir())
	assert.Equal(t, "/static/doodles", cfg.DoodlePublicPath())
}
