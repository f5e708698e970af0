// Package metrics exposes Prometheus collectors for acquisitions, searches and debrid calls.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rdstream"

// Metrics holds the application collectors.
type Metrics struct {
	Acquisitions        *prometheus.CounterVec
	AcquisitionDuration prometheus.Histogram
	StatusPolls         prometheus.Counter
	Searches            *prometheus.CounterVec
	SearchCacheHits     prometheus.Counter
	DebridCalls         *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates and registers the collectors with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acquisition",
			Name:      "total",
			Help:      "Acquisitions by outcome kind (ok or error kind).",
		}, []string{"outcome"}),
		AcquisitionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "acquisition",
			Name:      "duration_seconds",
			Help:      "Time from magnet submission to stream URL.",
			Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		}),
		StatusPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acquisition",
			Name:      "status_polls_total",
			Help:      "Torrent status fetches issued while waiting for readiness.",
		}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Torrent searches by outcome.",
		}, []string{"outcome"}),
		SearchCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "cache_hits_total",
			Help:      "Searches answered from the result cache.",
		}),
		DebridCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "debrid",
			Name:      "calls_total",
			Help:      "Debrid API calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.Acquisitions,
		m.AcquisitionDuration,
		m.StatusPolls,
		m.Searches,
		m.SearchCacheHits,
		m.DebridCalls,
	)

	return m
}

// NewNop returns metrics registered on a private registry, for tests and the CLI.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	// Compression is left to the HTTP middleware.
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{DisableCompression: true})
}

// Outcome turns an error into a label value.
func Outcome(err error, kind func(error) string) string {
	if err == nil {
		return "ok"
	}
	return kind(err)
}
