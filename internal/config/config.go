package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Capture CaptureConfig `mapstructure:"capture"`
	Storage StorageConfig `mapstructure:"storage"`
	Report  ReportConfig  `mapstructure:"report"`
}

type OpenAIConfig struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"` // supports OpenAI-compatible endpoints
	Model               string `mapstructure:"model"`
	MaxCompletionTokens int    `mapstructure:"max_completion_tokens"`
}

type CaptureConfig struct {
	// IntervalSeconds is how often the capture agent samples the screen.
	// Analytics treat every screenshot as worth this much time.
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

type StorageConfig struct {
	DBPath      string    `mapstructure:"db_path"`
	ReportsPath string    `mapstructure:"reports_path"`
	LogPath     string    `mapstructure:"log_path"`
	Log         LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`         // "debug", "info", "warn", "error"
	RotationTime string `mapstructure:"rotation_time"` // time-based rotation interval (e.g. "1h", "24h")
	MaxSize      int    `mapstructure:"max_size"`      // megabytes before size rotation
	MaxBackups   int    `mapstructure:"max_backups"`   // old log files to retain
	MaxAge       int    `mapstructure:"max_age"`       // days to retain old log files
	Compress     bool   `mapstructure:"compress"`
}

// ReportConfig drives the schedule command: which report to generate
// recurringly and when.
type ReportConfig struct {
	Range    string `mapstructure:"range"`    // time range phrase, e.g. "today"
	Type     string `mapstructure:"type"`     // summary, detailed or standup
	Interval string `mapstructure:"interval"` // fixed-rate interval, e.g. "24h"
	Cron     string `mapstructure:"cron"`     // cron spec; takes precedence over interval
}

func (c *CaptureConfig) Validate() error {
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("capture.interval_seconds must be positive, got %d", c.IntervalSeconds)
	}
	return nil
}

func (c *ReportConfig) Validate() error {
	switch c.Type {
	case "summary", "detailed", "standup":
		return nil
	}
	return fmt.Errorf("report.type must be summary, detailed or standup, got %q", c.Type)
}

func (c *StorageConfig) EnsureReportsPath() error {
	if c.ReportsPath == "" {
		return nil
	}
	return os.MkdirAll(c.ReportsPath, 0755)
}

func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".lookback"))
		}
	}

	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.max_completion_tokens", 1024)

	viper.SetDefault("capture.interval_seconds", 60)

	viper.SetDefault("storage.db_path", "./data/db/lookback.db")
	viper.SetDefault("storage.reports_path", "./data/reports")
	viper.SetDefault("storage.log_path", "")
	viper.SetDefault("storage.log.level", "info")
	viper.SetDefault("storage.log.rotation_time", "24h")
	viper.SetDefault("storage.log.max_size", 100)
	viper.SetDefault("storage.log.max_backups", 3)
	viper.SetDefault("storage.log.max_age", 28)
	viper.SetDefault("storage.log.compress", true)

	viper.SetDefault("report.range", "today")
	viper.SetDefault("report.type", "summary")
	viper.SetDefault("report.interval", "24h")
	viper.SetDefault("report.cron", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Capture.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
