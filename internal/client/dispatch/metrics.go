package dispatch

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts dispatch outcomes per mutation ref.
type Metrics struct {
	attempted *prometheus.CounterVec
	failed    *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates the dispatcher collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitkeeper",
			Subsystem: "dispatch",
			Name:      "attempted_total",
			Help:      "Number of mutations sent to the remote backend.",
		}, []string{"mutation"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitkeeper",
			Subsystem: "dispatch",
			Name:      "failed_total",
			Help:      "Number of mutations the remote backend rejected or never received.",
		}, []string{"mutation"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitkeeper",
			Subsystem: "dispatch",
			Name:      "skipped_total",
			Help:      "Number of mutations dropped because no remote was bound.",
		}, []string{"mutation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fitkeeper",
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Round-trip time of remote mutations.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"mutation"}),
	}

	if reg != nil {
		reg.MustRegister(m.attempted, m.failed, m.skipped, m.duration)
	}
	return m
}
