package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the dispatch pipeline and the reconciler.
type Metrics struct {
	// Completed reducer passes by action kind
	Actions *prometheus.CounterVec

	// Item actions addressed to identities no longer on the stack
	StaleActions prometheus.Counter

	// Surface updates by mode (rebuild, refresh)
	Reconciles *prometheus.CounterVec

	// Stack replacements originated by the surface
	Resyncs prometheus.Counter

	// Failed reducer passes
	Failures prometheus.Counter

	StackDepth      prometheus.Gauge
	EffectsInFlight prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates a Metrics instance registered on reg.
// A nil reg uses a private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Actions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "navstack_actions_total",
			Help: "Total reducer passes by action kind",
		}, []string{"kind"}),

		StaleActions: factory.NewCounter(prometheus.CounterOpts{
			Name: "navstack_stale_actions_total",
			Help: "Item actions whose target was no longer on the stack",
		}),

		Reconciles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "navstack_reconcile_total",
			Help: "Presentation surface updates by mode",
		}, []string{"mode"}),

		Resyncs: factory.NewCounter(prometheus.CounterOpts{
			Name: "navstack_resync_total",
			Help: "Stack replacements originated by the presentation surface",
		}),

		Failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "navstack_dispatch_failures_total",
			Help: "Reducer passes rejected by an invariant check",
		}),

		StackDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "navstack_stack_depth",
			Help: "Number of items on the stack",
		}),

		EffectsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "navstack_effects_in_flight",
			Help: "Effects currently running",
		}),

		gatherer: reg,
	}
}

// ObserveDispatch records one completed reducer pass.
func (m *Metrics) ObserveDispatch(kind string, depth int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Failures.Inc()
		return
	}
	m.Actions.WithLabelValues(kind).Inc()
	m.StackDepth.Set(float64(depth))
}

// SetEffectsInFlight records the number of running effects.
func (m *Metrics) SetEffectsInFlight(n int) {
	if m != nil {
		m.EffectsInFlight.Set(float64(n))
	}
}

// Hooks adapts the metrics to engine lifecycle hooks.
func (m *Metrics) Hooks() domain.Hooks {
	if m == nil {
		return domain.Hooks{}
	}
	reconciled := func(_ context.Context, e *domain.ReconcileEvent) {
		m.Reconciles.WithLabelValues(string(e.Mode)).Inc()
	}
	return domain.Hooks{
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			m.ObserveDispatch(e.Kind, e.Depth, e.Err)
		},
		OnStale: func(context.Context, *domain.StaleEvent) {
			m.StaleActions.Inc()
		},
		OnRebuild: reconciled,
		OnRefresh: reconciled,
		OnResync: func(context.Context, *domain.ResyncEvent) {
			m.Resyncs.Inc()
		},
	}
}

// Handler exposes the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
