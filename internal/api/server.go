// Package api serves the topic catalog and the question resolver over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/abhisek/devtutor/internal/quiz"
)

// API holds the handlers' dependencies.
type API struct {
	resolver *quiz.Resolver
	cache    quiz.Cache
	logger   zerolog.Logger
}

// New creates the API. cache may be nil.
func New(resolver *quiz.Resolver, cache quiz.Cache, logger zerolog.Logger) *API {
	return &API{resolver: resolver, cache: cache, logger: logger}
}

// Handler returns the routed handler wrapped in the request id and access
// log middleware. Metrics are served from gatherer.
func (a *API) Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /api/topics", a.handleTopics)
	mux.HandleFunc("GET /api/topics/{id}", a.handleTopic)
	mux.HandleFunc("GET /api/questions", a.handleQuestionsQuery)
	mux.HandleFunc("POST /api/questions", a.handleQuestionsBody)

	return requestID(accessLog(a.logger, mux))
}

// NewServer builds the HTTP server for addr.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
