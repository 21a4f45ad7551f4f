package chart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerCast/internal/model"
)

func samplePrediction() *model.Prediction {
	d := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return &model.Prediction{
		Ticker: "AAPL",
		Series: model.PriceSeries{Symbol: "AAPL", Points: []model.PricePoint{
			{Date: d, Close: 10, Volume: 100},
			{Date: d.AddDate(0, 0, 1), Close: 11, Volume: 200},
		}},
		Forecast: model.ForecastSeries{
			{Date: d.AddDate(0, 0, 2), PredictedClose: 10.5},
		},
		Rate:     model.ExchangeRate{Value: 2, Source: model.RateLive},
		Snapshot: &model.StatisticsSnapshot{Pair: model.DefaultPair},
	}
}

func TestNewFigure_Traces(t *testing.T) {
	fig := NewFigure(samplePrediction())

	require.Len(t, fig.Data, 5)
	names := make([]string, len(fig.Data))
	for i, tr := range fig.Data {
		names[i] = tr.Name
	}
	assert.Equal(t, []string{
		"Actual Price (USD)", "Predicted Price (USD)",
		"Actual Price (INR)", "Predicted Price (INR)", "Volume",
	}, names)

	assert.Equal(t, []string{"2024-03-04", "2024-03-05"}, fig.Data[0].X)
	assert.Equal(t, []float64{10, 11}, fig.Data[0].Y)
	assert.Equal(t, "dash", fig.Data[1].Line.Dash)
	assert.Equal(t, []float64{20, 22}, fig.Data[2].Y)
	assert.Equal(t, "legendonly", fig.Data[2].Visible)
	assert.Equal(t, []float64{21}, fig.Data[3].Y)
	assert.Equal(t, "bar", fig.Data[4].Type)
	assert.Equal(t, "y2", fig.Data[4].YAxis)
	assert.Equal(t, []float64{100, 200}, fig.Data[4].Y)
}

func TestNewFigure_Layout(t *testing.T) {
	fig := NewFigure(samplePrediction())
	assert.Equal(t, "AAPL Stock Price and Prediction (USD & INR)", fig.Layout.Title.Text)
	assert.Equal(t, 600, fig.Layout.Height)
	assert.Equal(t, "y", fig.Layout.YAxis2.Overlaying)
	assert.Equal(t, "right", fig.Layout.YAxis2.Side)
	assert.True(t, fig.Layout.ShowLegend)
}

func TestRender_IsFigureJSON(t *testing.T) {
	s, err := Render(samplePrediction())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	assert.Contains(t, doc, "data")
	assert.Contains(t, doc, "layout")
}
