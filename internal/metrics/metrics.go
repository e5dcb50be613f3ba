// Package metrics registers the Prometheus collectors for the HTTP API
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "carousel"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	DecksGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deck",
			Name:      "generated_total",
			Help:      "Decks generated, by mode",
		},
		[]string{"mode"},
	)

	SlidesPerDeck = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deck",
			Name:      "slides",
			Help:      "Number of slides per generated deck",
			Buckets:   []float64{1, 2, 3, 5, 8, 10, 15, 20, 30},
		},
	)

	// Over-long single sentences kept whole
	OversizedChunks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deck",
			Name:      "oversized_chunks_total",
			Help:      "Slides whose text exceeds the character budget",
		},
	)
)

// ObserveDeck records one generated deck
func ObserveDeck(mode string, slides, oversized int) {
	DecksGenerated.WithLabelValues(mode).Inc()
	SlidesPerDeck.Observe(float64(slides))
	if oversized > 0 {
		OversizedChunks.Add(float64(oversized))
	}
}
