package main

import (
	"fmt"
	"log"

	"TickerCast/internal/collector"
	"TickerCast/internal/config"
	"TickerCast/internal/currency"
	"TickerCast/internal/model"
	"TickerCast/internal/recorder"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// newFeeds picks the price and rate feeds for the configured provider.
func newFeeds(cfg *config.Config) (collector.PriceFeed, currency.RateFeed) {
	switch cfg.DataSource.Provider {
	case config.ProviderREST:
		f := collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
		return f, collector.NewRESTRateFeed(f, cfg.Currency.RateSymbol)
	case config.ProviderStatic:
		// No live rate exists offline; the converter reports the configured fallback.
		return &collector.StaticFetcher{Price: 100}, collector.StaticRateFeed{Err: currency.ErrUnavailable}
	default:
		f := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.DataSource.BaseURL != "" {
			f.BaseURL = cfg.DataSource.BaseURL
		}
		return f, collector.NewYahooRateFeed(f, cfg.Currency.RateSymbol)
	}
}

// newRecorder opens the request journal, falling back to a no-op recorder.
func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newCollector(cfg *config.Config, rec recorder.Recorder) *collector.Collector {
	feed, rates := newFeeds(cfg)
	log.Printf("[INFO] data source: %s, rate symbol %s", feed.Name(), cfg.Currency.RateSymbol)

	pair := model.CurrencyPair{Source: cfg.Currency.Source, Target: cfg.Currency.Target}
	col := collector.NewCollector(feed, currency.NewConverter(rates, cfg.Currency.FallbackRate), pair, cfg.DataSource.LookbackDays)
	col.Recorder = rec
	return col
}
