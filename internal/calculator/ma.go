package calculator

import (
	"errors"
	"fmt"

	"TickerCast/internal/model"
)

var (
	ErrInvalidWindow  = errors.New("window must be positive")
	ErrInvalidHorizon = errors.New("horizon must be positive")
	ErrEmptySeries    = errors.New("no data found for this ticker")
)

// MovingAverage computes the trailing simple moving average of closes over
// window points. The result has one element per input point; elements before
// the first full window are left invalid.
func MovingAverage(series model.PriceSeries, window int) (model.MovingAverageSeries, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	out := make(model.MovingAverageSeries, series.Len())
	if series.Len() < window {
		return out, nil
	}

	// Each window mean is summed afresh so values match a direct mean exactly.
	for i := window - 1; i < series.Len(); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += series.Points[j].Close
		}
		out[i] = model.MAValue{Value: sum / float64(window), Valid: true}
	}
	return out, nil
}

// LastValue returns the final element of a moving-average series.
func LastValue(ma model.MovingAverageSeries) (float64, bool) {
	if len(ma) == 0 {
		return 0, false
	}
	last := ma[len(ma)-1]
	return last.Value, last.Valid
}
