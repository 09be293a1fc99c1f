package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Tokens   *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Records  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hmmspell_tokens_total",
				Help: "Tokens processed, by outcome (corrected, unchanged, skipped).",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hmmspell_request_duration_seconds",
				Help:    "Duration of API requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hmmspell_model_records",
			Help: "Training records in the current model.",
		}),
	}
	reg.MustRegister(m.Tokens, m.Duration, m.Records)
	return m
}
