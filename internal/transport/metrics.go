package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dvelop_client",
		Name:      "requests_total",
		Help:      "HTTP requests sent by the SDK transport, by method and status code.",
	},
	[]string{"method", "code"},
)
