package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal           *prometheus.CounterVec
	verificationsTotal     *prometheus.CounterVec
	verificationConfidence *prometheus.HistogramVec
	searchRequestsTotal    *prometheus.CounterVec
	searchHitTotal         *prometheus.CounterVec
	searchNoResultTotal    *prometheus.CounterVec
	searchResults          *prometheus.HistogramVec
	exportsTotal           *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiwi",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kiwi",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kiwi",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiwi",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total accepted document uploads by declared type.",
		},
		[]string{"service", "declared_type"},
	)
	verificationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiwi",
			Subsystem: "verification",
			Name:      "outcomes_total",
			Help:      "Total completed verifications by outcome status.",
		},
		[]string{"service", "status"},
	)
	verificationConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kiwi",
			Subsystem: "verification",
			Name:      "confidence",
			Help:      "Distribution of verification confidence scores.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 98},
		},
		[]string{"service"},
	)
	searchRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiwi",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total successful lexical search requests.",
		},
		[]string{"service"},
	)
	searchHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiwi",
			Subsystem: "search",
			Name:      "hit_total",
			Help:      "Total search requests with at least one result.",
		},
		[]string{"service"},
	)
	searchNoResultTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiwi",
			Subsystem: "search",
			Name:      "no_result_total",
			Help:      "Total search requests without results.",
		},
		[]string{"service"},
	)
	searchResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kiwi",
			Subsystem: "search",
			Name:      "results",
			Help:      "Distribution of results per successful search request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kiwi",
			Subsystem: "export",
			Name:      "claims_total",
			Help:      "Total generated claim export workbooks.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		verificationsTotal,
		verificationConfidence,
		searchRequestsTotal,
		searchHitTotal,
		searchNoResultTotal,
		searchResults,
		exportsTotal,
	)

	return &HTTPServerMetrics{
		registry:               registry,
		requestTotal:           requestTotal,
		requestDuration:        requestDuration,
		requestInFlight:        requestInFlight,
		uploadsTotal:           uploadsTotal,
		verificationsTotal:     verificationsTotal,
		verificationConfidence: verificationConfidence,
		searchRequestsTotal:    searchRequestsTotal,
		searchHitTotal:         searchHitTotal,
		searchNoResultTotal:    searchNoResultTotal,
		searchResults:          searchResults,
		exportsTotal:           exportsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/claims/"):
		return "/v1/claims/{claim_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service, declaredType string) {
	if declaredType == "" {
		declaredType = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, declaredType).Inc()
}

func (m *HTTPServerMetrics) RecordVerification(service, status string, confidence int) {
	if status == "" {
		status = "unknown"
	}
	m.verificationsTotal.WithLabelValues(service, status).Inc()
	m.verificationConfidence.WithLabelValues(service).Observe(float64(confidence))
}

func (m *HTTPServerMetrics) RecordSearch(service string, resultCount int) {
	m.searchRequestsTotal.WithLabelValues(service).Inc()
	m.searchResults.WithLabelValues(service).Observe(float64(resultCount))

	if resultCount > 0 {
		m.searchHitTotal.WithLabelValues(service).Inc()
		return
	}
	m.searchNoResultTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordExport(service string) {
	m.exportsTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
