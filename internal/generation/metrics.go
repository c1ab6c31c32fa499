package generation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Obtain outcomes recorded by Metrics.
const (
	OutcomeHit              = "hit"
	OutcomeGenerated        = "generated"
	OutcomeFallback         = "fallback"
	OutcomeStale            = "stale"
	OutcomeShared           = "shared"
	OutcomeDeadlineStale    = "deadline_stale"
	OutcomeDeadlineFallback = "deadline_fallback"
)

// Metrics instruments the orchestrator. A nil *Metrics records nothing.
type Metrics struct {
	// Obtains counts resolved obtain calls per kind and outcome
	Obtains *prometheus.CounterVec

	// ProviderAttempts counts provider calls per kind and result
	ProviderAttempts *prometheus.CounterVec

	// ValidationFailures counts rejected provider responses per kind and reason
	ValidationFailures *prometheus.CounterVec

	// GenerationDuration tracks the wall time of shared generations
	GenerationDuration *prometheus.HistogramVec

	// InFlight tracks generations currently running
	InFlight prometheus.Gauge
}

// NewMetrics creates the orchestrator metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Obtains: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerforge_generation_obtains_total",
				Help: "Total number of artifact requests by outcome",
			},
			[]string{"kind", "outcome"},
		),
		ProviderAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerforge_generation_provider_attempts_total",
				Help: "Total number of provider calls by result",
			},
			[]string{"kind", "result"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "careerforge_generation_validation_failures_total",
				Help: "Total number of provider responses rejected by the validator",
			},
			[]string{"kind", "reason"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "careerforge_generation_duration_seconds",
				Help:    "Duration of shared generations in seconds, retries included",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"kind"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "careerforge_generation_in_flight",
				Help: "Number of generations currently in progress",
			},
		),
	}
}

func (m *Metrics) obtain(kind, outcome string) {
	if m == nil {
		return
	}
	m.Obtains.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) attempt(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(ClassifyError(err))
	}
	m.ProviderAttempts.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) validationFailure(kind string, reason ValidationReason) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(kind, string(reason)).Inc()
}

func (m *Metrics) generationStarted() func(kind string, seconds float64) {
	if m == nil {
		return func(string, float64) {}
	}
	m.InFlight.Inc()
	return func(kind string, seconds float64) {
		m.InFlight.Dec()
		m.GenerationDuration.WithLabelValues(kind).Observe(seconds)
	}
}
