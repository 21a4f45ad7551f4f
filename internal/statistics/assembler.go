package statistics

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"TickerCast/internal/currency"
	"TickerCast/internal/model"
)

var (
	ErrInsufficientHistory = errors.New("at least two price points are required")
	ErrEmptyForecast       = errors.New("forecast is empty")
	ErrInvalidRate         = errors.New("exchange rate must be positive")
)

// displayPlaces is the rounding applied to every figure in a snapshot.
const displayPlaces = 2

// Assemble derives the latest-day snapshot from a price series, its forecast
// and an exchange rate. Only forecast[0] is read.
func Assemble(series model.PriceSeries, forecast model.ForecastSeries, rate float64, pair model.CurrencyPair) (*model.StatisticsSnapshot, error) {
	if series.Len() < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientHistory, series.Len())
	}
	if len(forecast) == 0 {
		return nil, ErrEmptyForecast
	}
	if rate <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRate, rate)
	}

	last := series.Points[series.Len()-1]
	prev := series.Points[series.Len()-2]

	change := last.Close - prev.Close
	changePercent := 0.0
	if prev.Close != 0 {
		changePercent = change / prev.Close * 100
	}
	predicted := forecast[0].PredictedClose

	mirror := func(v float64) model.Money {
		return model.Money{Source: Round(v), Target: Round(currency.Convert(v, rate))}
	}

	return &model.StatisticsSnapshot{
		Pair:            pair,
		LastPrice:       mirror(last.Close),
		Change:          mirror(change),
		ChangePercent:   Round(changePercent),
		Volume:          last.Volume,
		High:            mirror(last.High),
		Low:             mirror(last.Low),
		Open:            mirror(last.Open),
		PredictedPrice:  mirror(predicted),
		PredictedChange: mirror(predicted - last.Close),
		Rate:            Round(rate),
	}, nil
}

// Round rounds the exact binary value of v to two decimal places, ties to
// even, so 2.675 (stored as 2.67499...) becomes 2.67. Non-finite values are
// returned unchanged.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', displayPlaces, 64), 64)
	if err != nil {
		return v
	}
	return r
}
