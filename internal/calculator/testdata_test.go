package calculator

import (
	"time"

	"TickerCast/internal/model"
)

// rampSeries builds n consecutive business days starting Monday 2024-01-01
// with closes start, start+1, ...
func rampSeries(n int, start float64) model.PriceSeries {
	pts := make([]model.PricePoint, 0, n)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for len(pts) < n {
		if IsBusinessDay(d) {
			c := start + float64(len(pts))
			pts = append(pts, model.PricePoint{Date: d, Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000})
		}
		d = d.AddDate(0, 0, 1)
	}
	return model.PriceSeries{Symbol: "TEST", Points: pts}
}
