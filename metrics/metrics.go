package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tupper"

// Metrics holds every collector and the registry they belong to.
type Metrics struct {
	registry *prometheus.Registry

	QuestionsTotal      *prometheus.CounterVec
	QuestionDuration    prometheus.Histogram
	StrictMatches       prometheus.Histogram
	FallbackMatches     prometheus.Histogram
	FallbackTriggered   prometheus.Counter
	RejectedFilters     *prometheus.CounterVec
	ConstraintsApplied  *prometheus.CounterVec
	PoolSize            prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		QuestionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assistant",
				Name:      "questions_total",
				Help:      "Total number of questions by final state",
			},
			[]string{"state"},
		),
		QuestionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "assistant",
				Name:      "question_duration_seconds",
				Help:      "Time to answer a question in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		StrictMatches: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "assistant",
				Name:      "strict_matches",
				Help:      "Dishes satisfying every constraint per question",
				Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 50, 100, 300},
			},
		),
		FallbackMatches: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "assistant",
				Name:      "fallback_matches",
				Help:      "Approximate matches appended per fallback",
				Buckets:   prometheus.LinearBuckets(0, 1, 11),
			},
		),
		FallbackTriggered: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assistant",
				Name:      "fallback_total",
				Help:      "Questions that needed approximate matches",
			},
		),
		RejectedFilters: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assistant",
				Name:      "rejected_filters_total",
				Help:      "Extracted filter entries dropped by the parser",
			},
			[]string{"key"},
		),
		ConstraintsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assistant",
				Name:      "constraints_total",
				Help:      "Constraints extracted from questions by key",
			},
			[]string{"key"},
		),
		PoolSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "pool_dishes",
				Help:      "Dishes in the candidate pool",
			},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
