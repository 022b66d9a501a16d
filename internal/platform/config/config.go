package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv       string `env:"APP_ENV" default:"development"`
	Host         string `env:"HOST"`
	Port         int    `env:"PORT" default:"5003"`
	StaticDir    string `env:"STATIC_DIR" default:"static"`
	PublicPrefix string `env:"PUBLIC_PREFIX" default:"/static"`
	TemplateDir  string `env:"TEMPLATE_DIR" default:"templates"`
	MaxImages    int    `env:"MAX_IMAGES" default:"18"`
	LogLevel     string `env:"LOG_LEVEL" default:"info"`
	LogFormat    string `env:"LOG_FORMAT" default:"text"`

	MaxWebSocketConnections int   `env:"MAX_WEBSOCKET_CONNECTIONS" default:"1000"`
	MaxPayloadBytes         int64 `env:"MAX_PAYLOAD_BYTES" default:"16777216"` // 16 MiB

	SubmissionRate  float64 `env:"SUBMISSION_RATE" default:"2"`
	SubmissionBurst int     `env:"SUBMISSION_BURST" default:"5"`
	SettingsRate    float64 `env:"SETTINGS_RATE" default:"5"`
	SettingsBurst   int     `env:"SETTINGS_BURST" default:"10"`

	WatchSettings bool `env:"WATCH_SETTINGS" default:"true"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.PublicPrefix = "/" + strings.Trim(cfg.PublicPrefix, "/")

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MaxImages < 1 {
		return errors.New("MAX_IMAGES must be at least 1")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 0 and 65535, got %d", cfg.Port)
	}
	if cfg.StaticDir == "" {
		return errors.New("STATIC_DIR is required")
	}
	if cfg.MaxWebSocketConnections < 1 {
		return errors.New("MAX_WEBSOCKET_CONNECTIONS must be at least 1")
	}
	if cfg.MaxPayloadBytes < 1 {
		return errors.New("MAX_PAYLOAD_BYTES must be positive")
	}
	if cfg.SubmissionRate <= 0 || cfg.SubmissionBurst < 1 {
		return errors.New("SUBMISSION_RATE and SUBMISSION_BURST must be positive")
	}
	if cfg.SettingsRate <= 0 || cfg.SettingsBurst < 1 {
		return errors.New("SETTINGS_RATE and SETTINGS_BURST must be positive")
	}
	return nil
}

// StyleSheetPath is the style sheet that doubles as the display settings store.
func (c *Config) StyleSheetPath() string {
	return filepath.Join(c.StaticDir, "css", "main.css")
}

// ScriptPath is the viewer script holding the max-images literal.
func (c *Config) ScriptPath() string {
	return filepath.Join(c.StaticDir, "js", "screen.js")
}

// NetworkConfigPath is the JSON artifact client assets read IP and PORT from.
func (c *Config) NetworkConfigPath() string {
	return filepath.Join(c.StaticDir, "js", "config.json")
}

func (c *Config) DoodleDir() string {
	return filepath.Join(c.StaticDir, "doodles")
}

func (c *Config) BackgroundDir() string {
	return filepath.Join(c.StaticDir, "background")
}

// DoodlePublicPath is the URL prefix stored doodles are served under.
func (c *Config) DoodlePublicPath() string {
	return path.Join(c.PublicPrefix, "doodles")
}
