package llm

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
)

// Metrics counts gateway calls by operation and outcome
type Metrics struct {
	calls *prometheus.CounterVec
}

// NewMetrics creates gateway metrics and registers them with reg when it is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "journaly",
				Subsystem: "gateway",
				Name:      "calls_total",
				Help:      "Model gateway calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.calls)
	}
	return m
}

func (m *Metrics) observe(op, outcome string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, outcome).Inc()
}
