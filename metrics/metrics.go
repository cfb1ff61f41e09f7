// Package metrics exposes Prometheus collectors for PDA derivations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeCached   = "cached"
)

// Metrics groups the derivation collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Derivations *prometheus.CounterVec
	Candidates  prometheus.Histogram
	Duration    prometheus.Histogram
}

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		Derivations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "solpda",
				Subsystem: "derive",
				Name:      "total",
				Help:      "Derivations by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		Candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solpda",
			Subsystem: "derive",
			Name:      "candidates",
			Help:      "Candidate hashes tried per derivation",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solpda",
			Subsystem: "derive",
			Name:      "duration_ms",
			Help:      "Time spent deriving an address",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 15),
		}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Derivations, m.Candidates, m.Duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe records one derivation.
func (m *Metrics) Observe(mode, outcome string, candidates int, start time.Time) {
	if m == nil {
		return
	}
	m.Derivations.WithLabelValues(mode, outcome).Inc()
	if candidates > 0 {
		m.Candidates.Observe(float64(candidates))
	}
	ObserveDuration(m.Duration, start)
}

// ObserveDuration records the milliseconds elapsed since start.
func ObserveDuration(h prometheus.Observer, start time.Time) {
	h.Observe(float64(time.Since(start).Microseconds()) / 1000)
}
