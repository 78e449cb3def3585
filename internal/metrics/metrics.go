// Package metrics описывает метрики Prometheus планировщика и HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// Результаты запуска обхода шаблонов.
const (
	RunCompleted = "completed"
	RunSkipped   = "skipped"
	RunFailed    = "failed"
)

// Sweep - метрики обхода повторяющихся шаблонов.
type Sweep struct {
	Runs         *prometheus.CounterVec
	Duration     prometheus.Histogram
	Due          prometheus.Counter
	Materialized prometheus.Counter
	Deactivated  prometheus.Counter
	Failed       prometheus.Counter
	Stale        prometheus.Counter
}

// NewSweep регистрирует метрики обхода в reg. При reg == nil метрики не регистрируются.
func NewSweep(reg prometheus.Registerer) *Sweep {
	f := promauto.With(reg)
	return &Sweep{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Number of sweep runs by result.",
		}, []string{"result"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Duration of sweep runs.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 600},
		}),
		Due: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "due_templates_total",
			Help:      "Templates found due by sweeps.",
		}),
		Materialized: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "materialized_entries_total",
			Help:      "Entries created from recurring templates.",
		}),
		Deactivated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "deactivated_templates_total",
			Help:      "Templates retired after passing their end date.",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "failed_templates_total",
			Help:      "Templates whose processing failed and will be retried.",
		}),
		Stale: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "stale_templates_total",
			Help:      "Templates skipped because another run already advanced them.",
		}),
	}
}

// HTTP - метрики HTTP API.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	return &HTTP{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"method", "route", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}
