package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/capital/capital"
)

// Registry holds the Prometheus metrics for evaluations.
type Registry struct {
	reg *prometheus.Registry

	Evaluations        *prometheus.CounterVec
	EvaluationErrors   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	StressBreaches     *prometheus.CounterVec
	LastRatio          prometheus.Gauge
}

// NewRegistry creates a registry with all capital metrics registered,
// plus the Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capital_evaluations_total",
				Help: "Total number of completed evaluations by compliance tier",
			},
			[]string{"tier"},
		),

		EvaluationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capital_evaluation_errors_total",
				Help: "Total number of rejected evaluations by error kind",
			},
			[]string{"kind"},
		),

		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "capital_evaluation_duration_seconds",
				Help:    "Duration of evaluations in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"result"},
		),

		StressBreaches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capital_stress_breaches_total",
				Help: "Total number of stress scenarios that breached the minimum ratio",
			},
			[]string{"target"},
		),

		LastRatio: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "capital_last_adequacy_ratio_percent",
				Help: "Adequacy ratio of the most recent evaluation with a defined ratio",
			},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Evaluations,
		r.EvaluationErrors,
		r.EvaluationDuration,
		r.StressBreaches,
		r.LastRatio,
	)
	return r
}

// Observe records the outcome of one evaluation.
func (r *Registry) Observe(resp capital.Response, err error, took time.Duration) {
	if err != nil {
		kind := "internal"
		switch {
		case errors.Is(err, capital.ErrInvalidInput):
			kind = "invalid_input"
		case errors.Is(err, capital.ErrConfiguration):
			kind = "configuration_error"
		}
		r.EvaluationErrors.WithLabelValues(kind).Inc()
		r.EvaluationDuration.WithLabelValues("error").Observe(took.Seconds())
		log.Debug().Str("kind", kind).Err(err).Msg("evaluation rejected")
		return
	}

	r.Evaluations.WithLabelValues(string(resp.ComplianceTier)).Inc()
	r.EvaluationDuration.WithLabelValues("ok").Observe(took.Seconds())
	if v, ok := resp.AdequacyRatio.Value(); ok {
		f, _ := v.Float64()
		r.LastRatio.Set(f)
	}
	for _, s := range resp.StressResults {
		if !s.Compliant {
			r.StressBreaches.WithLabelValues(string(s.Target)).Inc()
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
