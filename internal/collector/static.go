package collector

import (
	"context"
	"time"

	"TickerCast/internal/model"
)

// StaticFetcher returns controllable fixed data for development and testing.
type StaticFetcher struct {
	Price  float64
	Points []model.PricePoint
	Err    error
}

func (m *StaticFetcher) Name() string { return "static" }

func (m *StaticFetcher) FetchHistory(_ context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	if m.Err != nil {
		return model.PriceSeries{}, m.Err
	}
	points := m.Points
	if points == nil {
		points = generateMockPoints(m.Price, start, end)
	}
	if len(points) == 0 {
		return model.PriceSeries{}, ErrNotFound
	}
	return model.PriceSeries{Symbol: ticker, Points: append([]model.PricePoint(nil), points...)}, nil
}

// generateMockPoints builds one point per weekday in [start, end) drifting
// slowly around basePrice.
func generateMockPoints(basePrice float64, start, end time.Time) []model.PricePoint {
	var points []model.PricePoint
	for d := model.Day(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(len(points)%40-20)*0.001)
		points = append(points, model.PricePoint{
			Date:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
	}
	return points
}

// StaticRateFeed returns a fixed rate or error.
type StaticRateFeed struct {
	Rate float64
	Err  error
}

func (s StaticRateFeed) FetchLatestRate(context.Context) (float64, error) { return s.Rate, s.Err }
