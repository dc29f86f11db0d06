package server

import (
	"github.com/claude/liftlog/internal/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors the server updates.
type Metrics struct {
	// counters
	CounterRequests         *prometheus.CounterVec
	CounterWorkoutsFinished prometheus.Counter
	CounterImportedWorkouts *prometheus.CounterVec

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the server collectors on reg. When history is set its
// hit and miss counts are exported too.
func NewMetrics(namespace string, reg prometheus.Registerer, history *cache.History) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		CounterWorkoutsFinished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workouts_finished_total",
			Help:      "Live sessions finished and saved",
		}),
		CounterImportedWorkouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_workouts_total",
			Help:      "Workouts seen by the import endpoint by source and outcome",
		}, []string{"source", "outcome"}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of requests served",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"route"}),
	}

	if history != nil {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_cache_hits_total",
			Help:      "Completed-history lookups served from cache",
		}, func() float64 {
			hits, _ := history.Stats()
			return float64(hits)
		})
		factory.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_cache_misses_total",
			Help:      "Completed-history lookups that hit the database",
		}, func() float64 {
			_, misses := history.Stats()
			return float64(misses)
		})
	}
	return m
}
