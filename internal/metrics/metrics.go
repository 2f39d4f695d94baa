// Package metrics exposes Prometheus instruments for document extraction.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess is the outcome label for extractions that produced a result.
// Failed extractions use their error kind as the outcome.
const OutcomeSuccess = "success"

var (
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractions_total",
			Help: "Total number of document extractions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Duration of the model call and response validation in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"kind"},
	)

	ExtractionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "extractions_in_flight",
			Help: "Number of extractions currently waiting on the model",
		},
	)
)
