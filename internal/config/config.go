package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"WheelSentinel/internal/model"
)

// Supported market data providers.
const (
	ProviderYahoo = "yahoo"
	ProviderREST  = "rest"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider       string `yaml:"provider"`
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		HistoryRange   string `yaml:"history_range"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Defaults struct {
		Ticker  string `yaml:"ticker"`
		IVRank  *int   `yaml:"iv_rank"`
		OIScore *int   `yaml:"oi_score"`
	} `yaml:"defaults"`
	Watch struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
		Ticker  string `yaml:"ticker"`
	} `yaml:"watch"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
	Proxy string `yaml:"proxy"`
}

// DotEnvPath is the optional env file read before environment overrides.
var DotEnvPath = ".env"

// Load reads config from a YAML file, then .env, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Variables already set in the process environment win over .env.
	if err := godotenv.Load(DotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvPath, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"DATA_PROVIDER", &c.DataSource.Provider},
		{"DATA_BASE_URL", &c.DataSource.BaseURL},
		{"DATA_API_KEY", &c.DataSource.APIKey},
		{"HTTPS_PROXY", &c.Proxy},
		{"WATCH_CRON", &c.Watch.Cron},
		{"WATCH_TICKER", &c.Watch.Ticker},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse TRACING_ENABLED: %w", err)
		}
		c.Tracing.Enabled = enabled
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.HistoryRange == "" {
		c.DataSource.HistoryRange = string(model.Range6mo)
	}
	if c.DataSource.TimeoutSeconds == 0 {
		c.DataSource.TimeoutSeconds = 30
	}
	if c.Defaults.Ticker == "" {
		c.Defaults.Ticker = "NVDA"
	}
	if c.Defaults.IVRank == nil {
		v := model.DefaultIVRank
		c.Defaults.IVRank = &v
	}
	if c.Defaults.OIScore == nil {
		v := model.DefaultOIScore
		c.Defaults.OIScore = &v
	}
	if c.Watch.Cron == "" {
		c.Watch.Cron = "0 30 16 * * 1-5"
	}
	if c.Watch.Ticker == "" {
		c.Watch.Ticker = c.Defaults.Ticker
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// DefaultInputs returns the configured slider defaults.
func (c *Config) DefaultInputs() model.UserInputs {
	in := model.DefaultUserInputs()
	if c.Defaults.IVRank != nil {
		in.IVRank = *c.Defaults.IVRank
	}
	if c.Defaults.OIScore != nil {
		in.OIScore = *c.Defaults.OIScore
	}
	return in
}

// Validate checks the settings every mode needs.
func (c *Config) Validate() error {
	if err := c.DefaultInputs().Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	switch c.DataSource.Provider {
	case ProviderYahoo:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	switch model.HistoryRange(c.DataSource.HistoryRange) {
	case model.Range1mo, model.Range3mo, model.Range6mo, model.Range1y, model.Range2y:
	default:
		return fmt.Errorf("data_source.history_range %q is not supported", c.DataSource.HistoryRange)
	}
	if c.DataSource.TimeoutSeconds < 0 {
		return fmt.Errorf("data_source.timeout_seconds must be positive")
	}
	return nil
}

// ValidateBot checks the settings bot mode needs on top of Validate.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
