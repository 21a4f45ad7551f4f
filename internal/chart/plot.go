// Package chart renders a prediction as a Plotly figure.
package chart

import (
	"encoding/json"
	"fmt"

	"TickerCast/internal/currency"
	"TickerCast/internal/model"
)

const (
	actualColor   = "#00ff88"
	forecastColor = "#ff9900"
	figureHeight  = 600
	dateLayout    = "2006-01-02"
)

// Figure is the Plotly figure document: {"data": [...], "layout": {...}}.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type    string    `json:"type"`
	Mode    string    `json:"mode,omitempty"`
	Name    string    `json:"name"`
	X       []string  `json:"x"`
	Y       []float64 `json:"y"`
	Line    *Line     `json:"line,omitempty"`
	Visible string    `json:"visible,omitempty"`
	YAxis   string    `json:"yaxis,omitempty"`
}

type Line struct {
	Color string `json:"color"`
	Dash  string `json:"dash,omitempty"`
}

type Axis struct {
	Title      Title  `json:"title"`
	Overlaying string `json:"overlaying,omitempty"`
	Side       string `json:"side,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Legend struct {
	YAnchor string  `json:"yanchor"`
	Y       float64 `json:"y"`
	XAnchor string  `json:"xanchor"`
	X       float64 `json:"x"`
}

type Layout struct {
	Title      Title          `json:"title"`
	XAxis      Axis           `json:"xaxis"`
	YAxis      Axis           `json:"yaxis"`
	YAxis2     Axis           `json:"yaxis2"`
	Template   map[string]any `json:"template"`
	Height     int            `json:"height"`
	ShowLegend bool           `json:"showlegend"`
	Legend     Legend         `json:"legend"`
}

// darkTemplate is the subset of plotly_dark the front end needs.
var darkTemplate = map[string]any{
	"layout": map[string]any{
		"paper_bgcolor": "rgb(17,17,17)",
		"plot_bgcolor":  "rgb(17,17,17)",
		"font":          map[string]any{"color": "#f2f5fa"},
		"xaxis":         map[string]any{"gridcolor": "#283442"},
		"yaxis":         map[string]any{"gridcolor": "#283442"},
	},
}

// NewFigure builds the five-trace figure for a prediction: actual and forecast
// closes, their converted counterparts (hidden until toggled in the legend) and
// volume bars on a secondary axis.
func NewFigure(pred *model.Prediction) Figure {
	pair := model.DefaultPair
	if pred.Snapshot != nil && pred.Snapshot.Pair.Source != "" {
		pair = pred.Snapshot.Pair
	}
	rate := pred.Rate.Value

	n := pred.Series.Len()
	dates := make([]string, n)
	closes := make([]float64, n)
	converted := make([]float64, n)
	volumes := make([]float64, n)
	for i, p := range pred.Series.Points {
		dates[i] = p.Date.Format(dateLayout)
		closes[i] = p.Close
		converted[i] = currency.Convert(p.Close, rate)
		volumes[i] = float64(p.Volume)
	}

	fDates := make([]string, len(pred.Forecast))
	fValues := make([]float64, len(pred.Forecast))
	fConverted := make([]float64, len(pred.Forecast))
	for i, f := range pred.Forecast {
		fDates[i] = f.Date.Format(dateLayout)
		fValues[i] = f.PredictedClose
		fConverted[i] = currency.Convert(f.PredictedClose, rate)
	}

	return Figure{
		Data: []Trace{
			{Type: "scatter", Mode: "lines", Name: fmt.Sprintf("Actual Price (%s)", pair.Source),
				X: dates, Y: closes, Line: &Line{Color: actualColor}},
			{Type: "scatter", Mode: "lines", Name: fmt.Sprintf("Predicted Price (%s)", pair.Source),
				X: fDates, Y: fValues, Line: &Line{Color: forecastColor, Dash: "dash"}},
			{Type: "scatter", Mode: "lines", Name: fmt.Sprintf("Actual Price (%s)", pair.Target),
				X: dates, Y: converted, Line: &Line{Color: actualColor, Dash: "dot"}, Visible: "legendonly"},
			{Type: "scatter", Mode: "lines", Name: fmt.Sprintf("Predicted Price (%s)", pair.Target),
				X: fDates, Y: fConverted, Line: &Line{Color: forecastColor, Dash: "dashdot"}, Visible: "legendonly"},
			{Type: "bar", Name: "Volume", X: dates, Y: volumes, YAxis: "y2"},
		},
		Layout: Layout{
			Title:      Title{Text: fmt.Sprintf("%s Stock Price and Prediction (%s & %s)", pred.Ticker, pair.Source, pair.Target)},
			XAxis:      Axis{Title: Title{Text: "Date"}},
			YAxis:      Axis{Title: Title{Text: fmt.Sprintf("Price (%s)", pair.Source)}},
			YAxis2:     Axis{Title: Title{Text: "Volume"}, Overlaying: "y", Side: "right"},
			Template:   darkTemplate,
			Height:     figureHeight,
			ShowLegend: true,
			Legend:     Legend{YAnchor: "top", Y: 0.99, XAnchor: "left", X: 0.01},
		},
	}
}

// Render returns the figure for pred encoded as a JSON string.
func Render(pred *model.Prediction) (string, error) {
	b, err := json.Marshal(NewFigure(pred))
	if err != nil {
		return "", fmt.Errorf("encode figure: %w", err)
	}
	return string(b), nil
}
