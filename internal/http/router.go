package http

import (
	"net/http"
	"time"

	"agri-advisor/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Router struct {
	chi.Router
}

// NewRouter builds the middleware stack. limiter may be nil to disable rate
// limiting.
func NewRouter(limiter middleware.Limiter, requestTimeout time.Duration) *Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if limiter != nil {
		r.Use(middleware.RateLimit(limiter))
	}

	return &Router{r}
}

// RegisterAdvisorRoutes registers the question routes
func (r *Router) RegisterAdvisorRoutes(h *AdvisorHandler) {
	h.RegisterRoutes(r)
}

// RegisterQueryLogRoutes registers the audit log routes
func (r *Router) RegisterQueryLogRoutes(h *QueryLogHandler) {
	h.RegisterRoutes(r)
}

// RegisterHealthRoutes registers health check routes. ready reports whether
// dependencies are reachable; nil means always ready.
func (r *Router) RegisterHealthRoutes(ready func(*http.Request) error) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "timestamp": time.Now().Format(time.RFC3339)})
	})

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if ready != nil {
			if err := ready(req); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "timestamp": time.Now().Format(time.RFC3339)})
	})
}
