package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APICalls counts backend calls by operation and outcome (ok, http_error, empty, local_error).
	APICalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rfidattend_api_calls_total",
		Help: "Backend REST calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rfidattend_api_call_seconds",
		Help:    "Backend REST call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// Taps counts kiosk taps by final status.
	Taps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rfidattend_taps_total",
		Help: "RFID taps by status.",
	}, []string{"status"})

	TapsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rfidattend_taps_suppressed_total",
		Help: "Repeat reads dropped inside the dedup window.",
	})
)
