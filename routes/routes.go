package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/upb/task-simplifier/app"
	"github.com/upb/task-simplifier/handlers"
	"github.com/upb/task-simplifier/middleware"
)

// requestTimeout bounds one HTTP request. It sits above the largest
// provider timeout the validator accepts (300s).
const requestTimeout = 310 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := handlers.NewHealthHandler(deps.ProviderRegistry, deps.Manager, deps.Logger)
	simplify := handlers.NewSimplifyHandler(deps.Manager, deps.Logger)
	provider := handlers.NewProviderHandler(deps.Manager, deps.Metrics, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/simplify", simplify.HandleSimplify)

		r.Route("/providers", func(r chi.Router) {
			r.Get("/", provider.HandleList)
			r.Get("/status", provider.HandleStatus)
			r.Get("/stats", provider.HandleStats)
			r.Put("/{provider}/config", provider.HandlePutConfig)
			r.Delete("/{provider}/config", provider.HandleDeleteConfig)
		})

		r.Post("/config/reload", provider.HandleReload)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
