package currency

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"TickerCast/internal/metrics"
	"TickerCast/internal/model"
)

// DefaultFallbackRate is used whenever the live rate feed fails.
const DefaultFallbackRate = 83.0

var ErrUnavailable = errors.New("rate feed unavailable")

// RateFeed supplies the latest source-to-target exchange rate.
type RateFeed interface {
	FetchLatestRate(ctx context.Context) (float64, error)
}

// Convert scales amount by rate.
func Convert(amount, rate float64) float64 {
	return amount * rate
}

// Converter resolves the exchange rate for a request.
type Converter struct {
	Feed     RateFeed
	Fallback float64
}

// NewConverter creates a Converter. A non-positive fallback is replaced by
// DefaultFallbackRate.
func NewConverter(feed RateFeed, fallback float64) *Converter {
	if fallback <= 0 {
		fallback = DefaultFallbackRate
	}
	return &Converter{Feed: feed, Fallback: fallback}
}

// Resolve returns the live rate, or the fallback rate when the feed is nil,
// fails, or returns a non-positive or non-finite value. It never fails.
func (c *Converter) Resolve(ctx context.Context) model.ExchangeRate {
	rate, err := c.fetch(ctx)
	if err != nil {
		log.Printf("[WARN] exchange rate unavailable, using fallback %.2f: %v", c.fallback(), err)
		metrics.RateResolutions.WithLabelValues(string(model.RateFallback)).Inc()
		return model.ExchangeRate{Value: c.fallback(), Source: model.RateFallback}
	}
	metrics.RateResolutions.WithLabelValues(string(model.RateLive)).Inc()
	return model.ExchangeRate{Value: rate, Source: model.RateLive}
}

func (c *Converter) fetch(ctx context.Context) (float64, error) {
	if c.Feed == nil {
		return 0, fmt.Errorf("%w: no feed configured", ErrUnavailable)
	}
	rate, err := c.Feed.FetchLatestRate(ctx)
	if err != nil {
		return 0, err
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("%w: bad rate %v", ErrUnavailable, rate)
	}
	return rate, nil
}

func (c *Converter) fallback() float64 {
	if c.Fallback <= 0 {
		return DefaultFallbackRate
	}
	return c.Fallback
}
