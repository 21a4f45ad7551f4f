package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, 365, cfg.DataSource.LookbackDays)
	assert.Equal(t, "USD", cfg.Currency.Source)
	assert.Equal(t, "INR", cfg.Currency.Target)
	assert.Equal(t, "INR=X", cfg.Currency.RateSymbol)
	assert.Equal(t, 83.0, cfg.Currency.FallbackRate)
	assert.Equal(t, 4, cfg.Schedule.Concurrency)
	assert.False(t, cfg.TelegramEnabled())
	assert.Empty(t, cfg.Database.SQLitePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
  read_timeout: 5s
data_source:
  provider: REST
  base_url: http://bars.local
  lookback_days: 90
currency:
  source: usd
  target: eur
watchlist: [" aapl", "msft ", ""]
database:
  sqlite_path: data/journal.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, ProviderREST, cfg.DataSource.Provider)
	assert.Equal(t, 90, cfg.DataSource.LookbackDays)
	assert.Equal(t, "EUR", cfg.Currency.Target)
	assert.Equal(t, "EUR=X", cfg.Currency.RateSymbol)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Watchlist)
	assert.Equal(t, "data/journal.db", cfg.Database.SQLitePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: from-file
  chat_id: "1"
currency:
  fallback_rate: 80
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("CURRENCY_FALLBACK_RATE", "84.25")
	t.Setenv("DATA_SOURCE_LOOKBACK_DAYS", "30")
	t.Setenv("WATCHLIST", "aapl,tsla")
	t.Setenv("SCHEDULE_DIGEST_CRON", "0 30 9 * * 1-5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "1", cfg.Telegram.ChatID, "unset env keeps file value")
	assert.Equal(t, 84.25, cfg.Currency.FallbackRate)
	assert.Equal(t, 30, cfg.DataSource.LookbackDays)
	assert.Equal(t, []string{"AAPL", "TSLA"}, cfg.Watchlist)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_IgnoresGenericEnvNames(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: rest
  base_url: http://bars.local
  api_key: file-key
currency:
  source: usd
  target: eur
`)
	t.Setenv("PROVIDER", "static")
	t.Setenv("BASE_URL", "http://elsewhere")
	t.Setenv("API_KEY", "someone-elses")
	t.Setenv("SOURCE", "GBP")
	t.Setenv("TARGET", "JPY")
	t.Setenv("ADDR", ":9999")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("SQLITE_PATH", "data/bare.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderREST, cfg.DataSource.Provider)
	assert.Equal(t, "http://bars.local", cfg.DataSource.BaseURL)
	assert.Equal(t, "file-key", cfg.DataSource.APIKey)
	assert.Equal(t, "USD", cfg.Currency.Source)
	assert.Equal(t, "EUR", cfg.Currency.Target)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "data/bare.db", cfg.Database.SQLitePath)

	t.Setenv("DATA_SOURCE_API_KEY", "scoped-key")
	t.Setenv("CURRENCY_TARGET", "jpy")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "scoped-key", cfg.DataSource.APIKey)
	assert.Equal(t, "JPY", cfg.Currency.Target)
}

func TestLoad_BadInput(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("CURRENCY_FALLBACK_RATE", "lots")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad gin mode", func(c *Config) { c.Server.Mode = "verbose" }},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"rest without base url", func(c *Config) { c.DataSource.Provider = ProviderREST }},
		{"bad currency code", func(c *Config) { c.Currency.Target = "RUPEE" }},
		{"negative fallback", func(c *Config) { c.Currency.FallbackRate = -1 }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "x" }},
		{"digest without telegram", func(c *Config) {
			c.Schedule.DigestCron = "0 0 9 * * *"
			c.Watchlist = []string{"AAPL"}
		}},
		{"digest without watchlist", func(c *Config) {
			c.Telegram.BotToken, c.Telegram.ChatID = "x", "1"
			c.Schedule.DigestCron = "0 0 9 * * *"
		}},
		{"bad cron", func(c *Config) {
			c.Telegram.BotToken, c.Telegram.ChatID = "x", "1"
			c.Watchlist = []string{"AAPL"}
			c.Schedule.DigestCron = "every morning"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
