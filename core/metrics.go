package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jsonrpc_client_requests_total",
	Help: "Number of JSON-RPC requests issued, by method.",
}, []string{"method"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "jsonrpc_client_request_duration_milliseconds",
	Help:    "JSON-RPC request duration in milliseconds, by method.",
	Buckets: prometheus.ExponentialBuckets(1, 4, 10),
}, []string{"method"})

func Count(method string) {
	requestCounter.WithLabelValues(method).Inc()
}

func Time(method string, costInMs float64) {
	requestDuration.WithLabelValues(method).Observe(costInMs)
}
