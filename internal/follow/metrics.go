package follow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	followHopsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dvelop_client",
			Name:      "follow_hops_total",
			Help:      "HAL relations resolved by the link-follow interceptor.",
		},
		[]string{"rel"},
	)

	followFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dvelop_client",
			Name:      "follow_failures_total",
			Help:      "Link-follow hops that failed, by reason.",
		},
		[]string{"reason"},
	)
)
