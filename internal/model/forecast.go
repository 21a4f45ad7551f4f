package model

import "time"

// MAValue is one element of a moving-average series. Valid is false while
// the trailing window is not yet full.
type MAValue struct {
	Value float64
	Valid bool
}

// MovingAverageSeries has the same length as the series it was computed from.
type MovingAverageSeries []MAValue

// ForecastPoint is a predicted close for a future business day.
type ForecastPoint struct {
	Date           time.Time
	PredictedClose float64
}

// ForecastSeries is ordered by strictly increasing business day.
type ForecastSeries []ForecastPoint

// RateSource tells where an exchange rate came from.
type RateSource string

const (
	RateLive     RateSource = "live"
	RateFallback RateSource = "fallback"
)

// ExchangeRate is a source-to-target currency multiplier.
type ExchangeRate struct {
	Value  float64
	Source RateSource
}

// Prediction is the full result of one pipeline run for a ticker.
type Prediction struct {
	RequestID   string
	Ticker      string
	Series      PriceSeries
	MA5         MovingAverageSeries
	MA20        MovingAverageSeries
	Forecast    ForecastSeries
	Rate        ExchangeRate
	Snapshot    *StatisticsSnapshot
	GeneratedAt time.Time
}
