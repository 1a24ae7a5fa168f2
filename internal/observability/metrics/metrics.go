package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/documind/docrouter/internal/core/domain"
)

// Metrics bundles the service registry: HTTP server metrics plus the
// classification pipeline counters.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	classificationsTotal   *prometheus.CounterVec
	classificationDuration *prometheus.HistogramVec
	validationFailures     *prometheus.CounterVec
	ruleMatchesTotal       prometheus.Counter
	documentsStored        prometheus.Gauge
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrouter",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docrouter",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "docrouter",
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	classificationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrouter",
			Subsystem: "pipeline",
			Name:      "classifications_total",
			Help:      "Completed classification jobs by theme and status.",
		},
		[]string{"service", "theme", "status"},
	)
	classificationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docrouter",
			Subsystem: "pipeline",
			Name:      "classification_duration_seconds",
			Help:      "End-to-end classification duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"service"},
	)
	validationFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docrouter",
			Subsystem: "pipeline",
			Name:      "validation_failures_total",
			Help:      "Capability responses rejected by the validator, by reason.",
		},
		[]string{"service", "reason"},
	)
	ruleMatchesTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "docrouter",
			Subsystem:   "rules",
			Name:        "matches_total",
			Help:        "Total rules returned by match queries.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	documentsStored := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "docrouter",
			Subsystem:   "store",
			Name:        "documents",
			Help:        "Records currently held by the document store.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		classificationsTotal,
		classificationDuration,
		validationFailures,
		ruleMatchesTotal,
		documentsStored,
	)

	return &Metrics{
		registry:               registry,
		requestTotal:           requestTotal,
		requestDuration:        requestDuration,
		requestInFlight:        requestInFlight,
		classificationsTotal:   classificationsTotal,
		classificationDuration: classificationDuration,
		validationFailures:     validationFailures,
		ruleMatchesTotal:       ruleMatchesTotal,
		documentsStored:        documentsStored,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// PipelineObserver adapts Metrics to the use-case observer interface.
type PipelineObserver struct {
	service string
	metrics *Metrics
}

func (m *Metrics) Pipeline(service string) *PipelineObserver {
	return &PipelineObserver{service: service, metrics: m}
}

func (o *PipelineObserver) ClassificationFinished(theme domain.DocTheme, status string, duration time.Duration) {
	label := string(theme)
	if label == "" {
		label = "unknown"
	}
	o.metrics.classificationsTotal.WithLabelValues(o.service, label, status).Inc()
	o.metrics.classificationDuration.WithLabelValues(o.service).Observe(duration.Seconds())
}

func (o *PipelineObserver) ValidationFailure(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	o.metrics.validationFailures.WithLabelValues(o.service, reason).Inc()
}

func (m *Metrics) RecordRuleMatches(count int) {
	if count > 0 {
		m.ruleMatchesTotal.Add(float64(count))
	}
}

func (m *Metrics) SetDocumentsStored(count int) {
	m.documentsStored.Set(float64(count))
}
