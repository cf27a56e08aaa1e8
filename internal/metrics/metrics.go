package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	MessagesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctimon_messages_processed_total",
			Help: "Total inbound messages handled by the pipeline",
		},
	)

	MessagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctimon_messages_stored_total",
			Help: "Total messages persisted",
		},
	)

	AlertsRaised = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctimon_alerts_total",
			Help: "Total keyword alerts persisted",
		},
	)

	// Failure metrics
	OCRFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctimon_ocr_failures_total",
			Help: "OCR extractions that failed and degraded to empty text",
		},
	)

	StoreFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctimon_store_failures_total",
			Help: "Persistence calls that failed",
		},
	)

	DispatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ctimon_dispatch_failures_total",
			Help: "Alert notifications that could not be delivered",
		},
	)
)

// Serve exposes /metrics on addr. It blocks, so callers run it in a
// goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
