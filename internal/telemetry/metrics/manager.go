package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterProgressQueries     prometheus.Counter
	CounterGenerations         *prometheus.CounterVec
	CounterCompletedWorkouts   prometheus.Counter
	CounterSignUps             prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration    *prometheus.HistogramVec
	HistogramGenerationDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterProgressQueries := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "progress_queries",
		Help:      "The total number of progress aggregations",
	})
	counterGenerations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generations",
		Help:      "The total number of generative-text calls, by kind and outcome",
	}, []string{"kind", "outcome"})
	counterCompletedWorkouts := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "completed_workouts",
		Help:      "The total number of logged completed workouts",
	})
	counterSignUps := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sign_ups",
		Help:      "The total number of new users",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramGenerationDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generation_duration_seconds",
		Help:      "Duration of a single generative-text call in seconds",
		Buckets:   []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
	})

	return &Manager{
		CounterRequests:             counterRequests,
		CounterHandleRequestPanic:   counterHandleRequestPanic,
		CounterRateLimitedRequests:  counterRateLimitedRequests,
		CounterProgressQueries:      counterProgressQueries,
		CounterGenerations:          counterGenerations,
		CounterCompletedWorkouts:    counterCompletedWorkouts,
		CounterSignUps:              counterSignUps,
		GaugeRequests:               gaugeRequests,
		GaugeLifeSignal:             gaugeLifeSignal,
		HistogramRequestDuration:    histogramRequestDuration,
		HistogramGenerationDuration: histogramGenerationDuration,
	}
}
