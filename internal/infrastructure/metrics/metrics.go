// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fylo"

var (
	// OrdersSubmitted counts order submissions by result: ok, invalid, failed, disabled.
	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_submitted_total",
		Help:      "Order submissions by result.",
	}, []string{"result"})

	// ReconcilerEventsApplied counts change events applied to viewer state, by type.
	ReconcilerEventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciler_events_applied_total",
		Help:      "Change events applied by order view reconcilers.",
	}, []string{"type"})

	ActiveOrderStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "order_streams_active",
		Help:      "Open admin order streams.",
	})

	QuotesServed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_served_total",
		Help:      "Price quotes computed for the configurator.",
	})

	AssistantRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assistant_requests_total",
		Help:      "Assistant requests by result.",
	}, []string{"result"})
)
