package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes used as the "outcome" label of Submissions. The error
// outcomes match domain.Category values.
const (
	OutcomeSuccess    = "success"
	OutcomeIncomplete = "incomplete"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the predictor.
type Metrics struct {
	// Form submissions. labels: outcome={success,incomplete,server_error,no_response,setup_error}
	Submissions        *prometheus.CounterVec
	PredictionDuration prometheus.Histogram

	// Prediction event publishing.
	EventsPublished     prometheus.Counter
	EventsDropped       prometheus.Counter
	EventsPublishErrors prometheus.Counter
	EventsEnabled       prometheus.Gauge
}

// NewMetrics creates and registers all predictor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blood_demand",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"outcome"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blood_demand",
			Name:      "prediction_duration_seconds",
			Help:      "Round trip time of prediction service requests.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blood_demand",
			Name:      "events_published_total",
			Help:      "Prediction events written to the event topic.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blood_demand",
			Name:      "events_dropped_total",
			Help:      "Prediction events discarded because the queue was full or the service was stopping.",
		}),
		EventsPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blood_demand",
			Name:      "events_publish_errors_total",
			Help:      "Failed attempts to write a batch of prediction events.",
		}),
		EventsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blood_demand",
			Name:      "events_enabled",
			Help:      "1 when prediction events are published, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Submissions,
		m.PredictionDuration,
		m.EventsPublished,
		m.EventsDropped,
		m.EventsPublishErrors,
		m.EventsEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Submissions:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "blood_demand", Name: "submissions_total"}, []string{"outcome"}),
		PredictionDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "blood_demand", Name: "prediction_duration_seconds"}),
		EventsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "blood_demand", Name: "events_published_total"}),
		EventsDropped:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "blood_demand", Name: "events_dropped_total"}),
		EventsPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "blood_demand", Name: "events_publish_errors_total"}),
		EventsEnabled:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "blood_demand", Name: "events_enabled"}),
	}
}
