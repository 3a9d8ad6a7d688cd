package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/metrics"
)

type Router struct {
	handler *Handler
	proxy   *ProxyHandler
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewRouter(handler *Handler, proxy *ProxyHandler, log zerolog.Logger, m *metrics.Metrics) *Router {
	return &Router{
		handler: handler,
		proxy:   proxy,
		log:     log.With().Str("component", "router").Logger(),
		metrics: m,
	}
}

func (r *Router) SetupRoutes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(r.loggingMiddleware)
	router.Use(middleware.Timeout(60 * time.Second))

	// The proxy endpoints are called straight from the browser widget.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(api chi.Router) {
		api.Get("/rates", r.handler.GetRatesHandler)
		api.Get("/convert", r.handler.ConvertHandler)
		api.Get("/snapshot", r.handler.GetSnapshotHandler)
		api.Get("/decision", r.handler.GetDecisionHandler)
	})

	router.Get("/historical-rate", r.proxy.HistoricalRateHandler)
	router.Get("/current-rate", r.proxy.CurrentRateHandler)

	router.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.Handle("/metrics", promhttp.Handler())

	return router
}

func (r *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		duration := time.Since(start)

		if req.URL.Path != "/metrics" {
			r.metrics.HTTPRequestDuration.WithLabelValues(req.URL.Path, req.Method).Observe(duration.Seconds())
			r.metrics.HTTPRequestsTotal.WithLabelValues(req.URL.Path, req.Method, statusClass(ww.Status())).Inc()
		}

		r.log.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("query", req.URL.RawQuery).
			Int("status", ww.Status()).
			Dur("duration", duration).
			Str("remote_addr", req.RemoteAddr).
			Msg("HTTP request")
	})
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
