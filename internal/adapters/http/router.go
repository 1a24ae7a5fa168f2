package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/documind/docrouter/internal/core/ports"
	"github.com/documind/docrouter/internal/observability/metrics"
)

type Router struct {
	classifyUC ports.ClassificationService
	ruleUC     ports.RuleService
	docs       ports.DocumentStore
	exporter   ports.Exporter
	metrics    *metrics.Metrics
	options    Options
}

type Options struct {
	MaxUploadBytes   int64
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxConcurrent    int
	BackpressureWait time.Duration
}

func NewRouter(
	classifyUC ports.ClassificationService,
	ruleUC ports.RuleService,
	docs ports.DocumentStore,
	exporter ports.Exporter,
	m *metrics.Metrics,
	options Options,
) *Router {
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = 20 << 20
	}
	return &Router{
		classifyUC: classifyUC,
		ruleUC:     ruleUC,
		docs:       docs,
		exporter:   exporter,
		metrics:    m,
		options:    options,
	}
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", rt.healthz)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/documents", rt.uploadDocument)
		r.Get("/documents", rt.listDocuments)
		r.Get("/documents/export", rt.exportDocuments)
		r.Get("/documents/{documentID}", rt.getDocument)
		r.Get("/documents/{documentID}/matches", rt.matchDocument)

		r.Get("/jobs/{jobID}", rt.getJob)
		r.Delete("/jobs/{jobID}", rt.cancelJob)

		r.Get("/rules", rt.listRules)
		r.Post("/rules", rt.addRule)
		r.Patch("/rules/{ruleID}", rt.updateRule)
		r.Delete("/rules/{ruleID}", rt.deleteRule)
		r.Post("/rules/{ruleID}/toggle", rt.toggleRule)
		r.Post("/rules/{ruleID}/keywords", rt.addKeyword)
		r.Delete("/rules/{ruleID}/keywords/{keyword}", rt.removeKeyword)
	})

	var handler http.Handler = r
	if rt.options.MaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.options.MaxConcurrent, rt.options.BackpressureWait)
	}
	if rt.options.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.options.RateLimitRPS, rt.options.RateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("docrouter", handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
