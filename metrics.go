package dvelop

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	logEventsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dvelop_client",
			Name:      "log_events_enqueued_total",
			Help:      "Log events accepted into the shard executor.",
		},
		[]string{"shard"},
	)

	logEventsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dvelop_client",
			Name:      "log_event_delivery_failures_total",
			Help:      "Async log jobs that gave up with an error.",
		},
	)
)
