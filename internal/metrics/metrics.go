// Package metrics counts conversions for Prometheus. Batch runs export the
// counters as a node_exporter textfile.
package metrics

import (
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/paths"
)

const namespace = "canon"

// Metrics implements convert.Observer.
type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	lossy       *prometheus.CounterVec
	warnings    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	score       *prometheus.HistogramVec
}

// New registers the conversion metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions by source, target and final state.",
		}, []string{"from", "to", "state"}),
		lossy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lossy_conversions_total",
			Help:      "Successful conversions that lost content.",
		}, []string{"to"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_warnings_total",
			Help:      "Warnings attached to successful conversions.",
		}, []string{"to"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent per conversion.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"to"}),
		score: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_quality_score",
			Help:      "Quality score of successful conversions.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}, []string{"to"}),
	}
	m.registry.MustRegister(m.conversions, m.lossy, m.warnings, m.duration, m.score)
	return m
}

// ObserveConversion records one finished conversion.
func (m *Metrics) ObserveConversion(e convert.Event) {
	to := string(e.To)
	m.conversions.WithLabelValues(string(e.From), to, e.State.String()).Inc()
	m.duration.WithLabelValues(to).Observe(e.Duration.Seconds())
	if e.State != convert.Done {
		return
	}
	m.score.WithLabelValues(to).Observe(float64(e.Score))
	m.warnings.WithLabelValues(to).Add(float64(e.Warnings))
	if e.Lossy {
		m.lossy.WithLabelValues(to).Inc()
	}
}

// Gatherer exposes the registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format,
// atomically replacing path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating metrics directory")
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
