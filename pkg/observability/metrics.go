package observability

import (
	"context"

	"github.com/aretw0/heddle/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by workspace hooks.
type Metrics struct {
	Invocations  *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	EmptyResults *prometheus.CounterVec
	Recomputes   prometheus.Counter
	Nodes        *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heddle_operator_invocations_total",
				Help: "Total number of operator invocations",
			},
			[]string{"operator", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "heddle_operator_duration_seconds",
				Help:    "Duration of operator invocations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"operator"},
		),
		EmptyResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heddle_operator_empty_results_total",
				Help: "Invocations that produced no drafts",
			},
			[]string{"operator"},
		),
		Recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heddle_recomputes_total",
			Help: "Total number of graph recomputes",
		}),
		Nodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "heddle_nodes",
				Help: "Live nodes across open workspaces",
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Invocations, m.Duration, m.EmptyResults, m.Recomputes, m.Nodes)
	}
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeCreated: func(_ context.Context, e *domain.NodeEvent) {
			m.Nodes.WithLabelValues(e.Kind.String()).Inc()
		},
		OnNodeRemoved: func(_ context.Context, e *domain.NodeEvent) {
			m.Nodes.WithLabelValues(e.Kind.String()).Dec()
		},
		OnInvokeResult: func(_ context.Context, e *domain.InvokeEvent) {
			outcome := "ok"
			switch {
			case e.Err != nil:
				outcome = "error"
			case e.Empty:
				outcome = "empty"
				m.EmptyResults.WithLabelValues(e.Operator).Inc()
			}
			m.Invocations.WithLabelValues(e.Operator, outcome).Inc()
			m.Duration.WithLabelValues(e.Operator).Observe(e.Duration.Seconds())
		},
		OnRecompute: func(context.Context, *domain.RecomputeEvent) {
			m.Recomputes.Inc()
		},
	}
}
