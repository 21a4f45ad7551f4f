package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Feed providers accepted in data_source.provider.
const (
	ProviderYahoo  = "yahoo"
	ProviderREST   = "rest"
	ProviderStatic = "static"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		Mode            string        `yaml:"mode" envconfig:"GIN_MODE"`
		ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
		WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
	} `yaml:"server"`
	DataSource struct {
		Provider     string `yaml:"provider"`
		BaseURL      string `yaml:"base_url" split_words:"true"`
		APIKey       string `yaml:"api_key" split_words:"true"`
		LookbackDays int    `yaml:"lookback_days" split_words:"true"`
	} `yaml:"data_source" split_words:"true"`
	Currency struct {
		Source       string  `yaml:"source"`
		Target       string  `yaml:"target"`
		RateSymbol   string  `yaml:"rate_symbol" split_words:"true"`
		FallbackRate float64 `yaml:"fallback_rate" split_words:"true"`
	} `yaml:"currency"`
	Telegram struct {
		BotToken string `yaml:"bot_token" split_words:"true"`
		ChatID   string `yaml:"chat_id" split_words:"true"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron  string `yaml:"digest_cron" split_words:"true"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
	Database  struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults.
//
// Environment keys are SECTION_FIELD, e.g. TELEGRAM_BOT_TOKEN,
// DATA_SOURCE_PROVIDER, CURRENCY_FALLBACK_RATE, WATCHLIST=AAPL,MSFT. The only
// bare keys honoured are GIN_MODE, SQLITE_PATH and HTTPS_PROXY.
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

	// A missing .env is fine.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = 365
	}
	if c.Currency.Source == "" {
		c.Currency.Source = "USD"
	}
	if c.Currency.Target == "" {
		c.Currency.Target = "INR"
	}
	c.Currency.Source = strings.ToUpper(c.Currency.Source)
	c.Currency.Target = strings.ToUpper(c.Currency.Target)
	if c.Currency.RateSymbol == "" {
		c.Currency.RateSymbol = c.Currency.Target + "=X"
		if c.Currency.Source != "USD" {
			c.Currency.RateSymbol = c.Currency.Source + c.Currency.Target + "=X"
		}
	}
	if c.Currency.FallbackRate == 0 {
		c.Currency.FallbackRate = 83.0
	}
	if c.Schedule.Concurrency == 0 {
		c.Schedule.Concurrency = 4
	}

	watchlist := c.Watchlist[:0]
	for _, t := range c.Watchlist {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			watchlist = append(watchlist, t)
		}
	}
	c.Watchlist = watchlist
}

// TelegramEnabled reports whether bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// cronParser matches cron.New(cron.WithSeconds()).
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q is not one of debug, release, test", c.Server.Mode)
	}
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderStatic:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", ProviderREST)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, static", c.DataSource.Provider)
	}
	if c.DataSource.LookbackDays < 0 {
		return fmt.Errorf("data_source.lookback_days must be positive")
	}
	if len(c.Currency.Source) != 3 || len(c.Currency.Target) != 3 {
		return fmt.Errorf("currency.source and currency.target must be 3-letter codes")
	}
	if r := c.Currency.FallbackRate; r <= 0 || math.IsInf(r, 0) || math.IsNaN(r) {
		return fmt.Errorf("currency.fallback_rate must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Schedule.DigestCron != "" {
		if !c.TelegramEnabled() {
			return fmt.Errorf("schedule.digest_cron requires telegram.bot_token and telegram.chat_id")
		}
		if len(c.Watchlist) == 0 {
			return fmt.Errorf("schedule.digest_cron requires a non-empty watchlist")
		}
		if _, err := cronParser.Parse(c.Schedule.DigestCron); err != nil {
			return fmt.Errorf("schedule.digest_cron: %w", err)
		}
	}
	if c.Schedule.Concurrency < 0 {
		return fmt.Errorf("schedule.concurrency must be positive")
	}
	return nil
}
