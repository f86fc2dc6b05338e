package quiz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records resolver outcomes.
type Metrics struct {
	resolved      *prometheus.CounterVec
	remoteLatency prometheus.Histogram
}

// NewMetrics creates the resolver metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devtutor",
			Subsystem: "quiz",
			Name:      "resolved_total",
			Help:      "Question sets resolved, by source.",
		}, []string{"source"}),
		remoteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "devtutor",
			Subsystem: "quiz",
			Name:      "remote_generation_seconds",
			Help:      "Latency of remote question generation attempts.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.resolved, m.remoteLatency)
	}
	return m
}

func (m *Metrics) observeResult(src Source) {
	if m == nil {
		return
	}
	m.resolved.WithLabelValues(string(src)).Inc()
}

func (m *Metrics) observeRemote(d time.Duration) {
	if m == nil {
		return
	}
	m.remoteLatency.Observe(d.Seconds())
}
