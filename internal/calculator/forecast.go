package calculator

import (
	"fmt"
	"time"

	"TickerCast/internal/model"
)

// DefaultHorizon is the number of business days forecast per request.
const DefaultHorizon = 7

// Recurrence weights: next = wCurrent*current + wMA5*MA5 + wMA20*MA20.
const (
	wCurrent = 0.5
	wMA5     = 0.3
	wMA20    = 0.2
)

const (
	shortWindow = 5
	longWindow  = 20
)

// Anchors are the values held constant across every forecast step.
type Anchors struct {
	LastClose float64
	MA5       float64
	MA20      float64
	// MA5Substituted and MA20Substituted mark anchors replaced by LastClose
	// because the history was shorter than the window.
	MA5Substituted  bool
	MA20Substituted bool
}

// FixedPoint is the value the recurrence converges to.
func (a Anchors) FixedPoint() float64 {
	return (wMA5*a.MA5 + wMA20*a.MA20) / (1 - wCurrent)
}

// Step applies one update of the recurrence.
func (a Anchors) Step(current float64) float64 {
	return wCurrent*current + wMA5*a.MA5 + wMA20*a.MA20
}

// ShortHistoryAnchorPolicy substitutes the last close for a moving average
// that is undefined because the series is shorter than its window.
func ShortHistoryAnchorPolicy(lastClose, ma float64, ok bool) (float64, bool) {
	if !ok {
		return lastClose, true
	}
	return ma, false
}

// ResolveAnchors computes the 5- and 20-day moving averages and derives the
// forecast anchors from their final elements.
func ResolveAnchors(series model.PriceSeries) (Anchors, model.MovingAverageSeries, model.MovingAverageSeries, error) {
	last, ok := series.Last()
	if !ok {
		return Anchors{}, nil, nil, ErrEmptySeries
	}
	ma5, err := MovingAverage(series, shortWindow)
	if err != nil {
		return Anchors{}, nil, nil, fmt.Errorf("ma%d: %w", shortWindow, err)
	}
	ma20, err := MovingAverage(series, longWindow)
	if err != nil {
		return Anchors{}, nil, nil, fmt.Errorf("ma%d: %w", longWindow, err)
	}

	a := Anchors{LastClose: last.Close}
	v, ok := LastValue(ma5)
	a.MA5, a.MA5Substituted = ShortHistoryAnchorPolicy(a.LastClose, v, ok)
	v, ok = LastValue(ma20)
	a.MA20, a.MA20Substituted = ShortHistoryAnchorPolicy(a.LastClose, v, ok)
	return a, ma5, ma20, nil
}

// GenerateForecast extrapolates horizon business-day closes after the last
// date of series.
func GenerateForecast(series model.PriceSeries, horizon int) (model.ForecastSeries, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizon)
	}
	anchors, _, _, err := ResolveAnchors(series)
	if err != nil {
		return nil, err
	}
	last, _ := series.Last()
	return Extrapolate(anchors, last.Date, horizon), nil
}

// Extrapolate runs the recurrence horizon times from the last close and pairs
// each value with the next business day after lastDate.
func Extrapolate(a Anchors, lastDate time.Time, horizon int) model.ForecastSeries {
	dates := NextBusinessDays(lastDate, horizon)
	out := make(model.ForecastSeries, horizon)
	current := a.LastClose
	for i := 0; i < horizon; i++ {
		current = a.Step(current)
		out[i] = model.ForecastPoint{Date: dates[i], PredictedClose: current}
	}
	return out
}
