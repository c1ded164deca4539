// Package metrics records analysis counters and writes them in the
// node_exporter textfile format. The CLI is short-lived, so nothing is
// served over HTTP; the textfile collector picks the file up instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gzhole/cryptadvisor/internal/advisor"
)

// Recorder holds one registry per process.
type Recorder struct {
	registry *prometheus.Registry

	analysesTotal      *prometheus.CounterVec
	analysisDuration   prometheus.Histogram
	classifierOutcomes *prometheus.CounterVec
	securityFocus      prometheus.Histogram
	passwordStrength   prometheus.Histogram
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		analysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptadvisor_analyses_total",
				Help: "Total number of analyses by recommended algorithm and status",
			},
			[]string{"algorithm", "status"},
		),
		analysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptadvisor_analysis_duration_seconds",
				Help:    "Analysis run time in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
			},
		),
		classifierOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptadvisor_classifier_outcomes_total",
				Help: "Classifier step outcomes",
			},
			[]string{"classifier", "outcome"},
		),
		securityFocus: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptadvisor_security_focus_factor",
				Help:    "Heuristic security-focus factor of successful analyses",
				Buckets: []float64{0.5, 0.55, 0.6, 0.65, 0.7},
			},
		),
		passwordStrength: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptadvisor_password_strength_score",
				Help:    "Recommended password strength score",
				Buckets: prometheus.LinearBuckets(30, 10, 8),
			},
		),
	}
}

// Observe records one analysis. It satisfies advisor.Observer.
func (r *Recorder) Observe(t advisor.Trace) {
	rec := t.Recommendation
	status := "ok"
	if rec.Failed() {
		status = "error"
	}
	r.analysesTotal.WithLabelValues(string(rec.Algorithm), status).Inc()
	r.analysisDuration.Observe(t.Duration.Seconds())
	r.passwordStrength.Observe(float64(rec.PasswordStrength))
	if rec.SecurityFocusFactor != nil {
		r.securityFocus.Observe(*rec.SecurityFocusFactor)
	}

	name := t.Classifier
	if name == "" {
		name = "none"
	}
	r.classifierOutcomes.WithLabelValues(name, string(t.Outcome)).Inc()
}

// Gatherer exposes the registry, mostly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
