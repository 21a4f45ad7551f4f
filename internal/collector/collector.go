package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"TickerCast/internal/calculator"
	"TickerCast/internal/currency"
	"TickerCast/internal/metrics"
	"TickerCast/internal/model"
	"TickerCast/internal/recorder"
	"TickerCast/internal/statistics"
)

// DefaultLookbackDays is the calendar-day window of history fetched per request.
const DefaultLookbackDays = 365

// NoDataMessage is shown to users when a ticker has no history.
const NoDataMessage = "No data found for this ticker."

// Collector runs the prediction pipeline: fetch history, resolve the rate,
// forecast and assemble statistics.
type Collector struct {
	Feed         PriceFeed
	Converter    *currency.Converter
	Pair         model.CurrencyPair
	LookbackDays int
	Now          func() time.Time

	// Recorder journals every request when set.
	Recorder recorder.Recorder
}

// NewCollector creates a new Collector.
func NewCollector(feed PriceFeed, conv *currency.Converter, pair model.CurrencyPair, lookbackDays int) *Collector {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Collector{
		Feed:         feed,
		Converter:    conv,
		Pair:         pair,
		LookbackDays: lookbackDays,
		Now:          time.Now,
	}
}

type requestIDKey struct{}

// WithRequestID attaches a request id to ctx for Predict to pick up.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached by WithRequestID, or a new UUID.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Predict runs the whole pipeline for one ticker.
func (c *Collector) Predict(ctx context.Context, ticker string) (*model.Prediction, error) {
	id := RequestID(ctx)
	ctx = WithRequestID(ctx, id)

	start := time.Now()
	pred, err := c.predict(ctx, ticker)
	elapsed := time.Since(start)

	metrics.PipelineLatency.Observe(elapsed.Seconds())
	metrics.Predictions.WithLabelValues(Outcome(err)).Inc()
	c.journal(ctx, id, ticker, pred, err, elapsed)
	return pred, err
}

func (c *Collector) predict(ctx context.Context, ticker string) (*model.Prediction, error) {
	id := RequestID(ctx)

	symbol, err := SanitizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	end := c.Now()
	from := end.AddDate(0, 0, -c.LookbackDays)

	series, err := c.Feed.FetchHistory(ctx, symbol, from, end)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", symbol, calculator.ErrEmptySeries)
		}
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, calculator.ErrEmptySeries)
	}

	rate := c.Converter.Resolve(ctx)

	anchors, ma5, ma20, err := calculator.ResolveAnchors(series)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", symbol, err)
	}
	if anchors.MA20Substituted || anchors.MA5Substituted {
		log.Printf("[WARN] [%s] %s: short history (%d points), last close substituted for missing moving average", id, symbol, series.Len())
	}
	last, _ := series.Last()
	forecast := calculator.Extrapolate(anchors, last.Date, calculator.DefaultHorizon)

	snap, err := statistics.Assemble(series, forecast, rate.Value, c.Pair)
	if err != nil {
		return nil, fmt.Errorf("statistics %s: %w", symbol, err)
	}

	log.Printf("[INFO] [%s] %s: %d points via %s, rate %.4f (%s), next close %.2f",
		id, symbol, series.Len(), c.Feed.Name(), rate.Value, rate.Source, forecast[0].PredictedClose)

	return &model.Prediction{
		RequestID:   id,
		Ticker:      symbol,
		Series:      series,
		MA5:         ma5,
		MA20:        ma20,
		Forecast:    forecast,
		Rate:        rate,
		Snapshot:    snap,
		GeneratedAt: end,
	}, nil
}

// Outcome classifies a pipeline error for metrics and the request journal.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, calculator.ErrEmptySeries):
		return "no_data"
	case errors.Is(err, ErrInvalidTicker):
		return "invalid_ticker"
	case errors.Is(err, statistics.ErrInsufficientHistory):
		return "insufficient_history"
	default:
		return "error"
	}
}

// UserMessage collapses a pipeline error into the single message shown at the
// request boundary.
func UserMessage(err error) string {
	if errors.Is(err, calculator.ErrEmptySeries) {
		return NoDataMessage
	}
	return err.Error()
}
