package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgerdesk_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledgerdesk_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	documentsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgerdesk_documents_generated_total",
		Help: "Count of PDF documents generated by kind and result",
	}, []string{"kind", "result"})

	pdfRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledgerdesk_pdf_render_duration_seconds",
		Help:    "Duration of headless-browser PDF renders",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	emailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgerdesk_emails_sent_total",
		Help: "Count of transactional emails by kind and result",
	}, []string{"kind", "result"})

	sagaCompensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgerdesk_saga_compensations_total",
		Help: "Count of multi-step operations rolled back, by operation",
	}, []string{"operation"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveDocument records a PDF render with its result label.
func ObserveDocument(kind, result string, duration time.Duration) {
	documentsGenerated.WithLabelValues(kind, result).Inc()
	pdfRenderDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveEmail increments the email counter for the given kind and result.
func ObserveEmail(kind, result string) {
	emailsSent.WithLabelValues(kind, result).Inc()
}

// ObserveSagaCompensation increments the rollback counter for an operation.
func ObserveSagaCompensation(operation string) {
	sagaCompensations.WithLabelValues(operation).Inc()
}
