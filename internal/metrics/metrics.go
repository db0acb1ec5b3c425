package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "macropadd_events_dispatched_total",
		Help: "Total number of raw input events accepted by the dispatcher.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "macropadd_events_dropped_total",
		Help: "Total number of input events rejected due to a full queue.",
	})

	QueueLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "macropadd_queue_latency_ms",
		Help:    "Time events spend in the dispatch queue before handling, in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
	})

	EventsUnbound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "macropadd_events_unbound_total",
		Help: "Total number of input events with no bound action in the active or base layer.",
	})

	ActionsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "macropadd_actions_executed_total",
		Help: "Total number of action executions, labelled by kind and status.",
	}, []string{"kind", "status"})

	ExecutionsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "macropadd_executions_cancelled_total",
		Help: "Total number of in-flight executions cancelled by a later event on the same control.",
	})

	ExecutionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "macropadd_executions_active",
		Help: "Number of currently live execution handles.",
	})

	ExecutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "macropadd_execution_duration_ms",
		Help:    "Wall time of completed action executions in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000},
	})

	LayerActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "macropadd_layer_activations_total",
		Help: "Total number of active-layer switches, labelled by layer identifier.",
	}, []string{"layer"})

	ConfigReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "macropadd_config_reloads_total",
		Help: "Total number of configuration reload attempts, labelled by outcome.",
	}, []string{"status"})
)
