// Package metrics holds the Prometheus collectors shared by the pipeline and
// the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Predictions counts pipeline runs by outcome.
	// Labels: status (success, no_data, invalid_ticker, insufficient_history, error)
	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tickercast",
		Subsystem: "pipeline",
		Name:      "predictions_total",
		Help:      "Total prediction requests by outcome",
	}, []string{"status"})

	// PipelineLatency measures a full pipeline run including feed calls.
	PipelineLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tickercast",
		Subsystem: "pipeline",
		Name:      "latency_seconds",
		Help:      "Prediction pipeline latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	// RateResolutions counts exchange-rate resolutions by source.
	// Labels: source (live, fallback)
	RateResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tickercast",
		Subsystem: "currency",
		Name:      "rate_resolutions_total",
		Help:      "Exchange rate resolutions by source",
	}, []string{"source"})
)
