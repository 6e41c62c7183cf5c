// Package metrics exposes forecast counters and timings for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mcforecast"

// Outcome labels for the forecasts counter.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Recorder owns a private registry so tests and multiple servers never
// collide on the global one.
type Recorder struct {
	registry  *prometheus.Registry
	forecasts *prometheus.CounterVec
	trials    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_total",
			Help:      "Forecast requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_trials_total",
			Help:      "Monte-Carlo trials simulated by mode.",
		}, []string{"mode"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_seconds",
			Help:      "Wall time of one forecast run.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"mode"}),
	}
	r.registry.MustRegister(r.forecasts, r.trials, r.duration)
	return r
}

// ObserveForecast records one forecast attempt.
func (r *Recorder) ObserveForecast(mode, outcome string, trials int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.forecasts.WithLabelValues(mode, outcome).Inc()
	if outcome == OutcomeOK {
		r.trials.WithLabelValues(mode).Add(float64(trials))
		r.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Forecasts exposes the counter for tests.
func (r *Recorder) Forecasts() *prometheus.CounterVec {
	return r.forecasts
}

// Trials exposes the trial counter for tests.
func (r *Recorder) Trials() *prometheus.CounterVec {
	return r.trials
}
