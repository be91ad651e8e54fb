package api

import (
	"database/sql"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/taskvault-be/internal/api/handlers"
	"github.com/isdelr/taskvault-be/internal/auth"
	"github.com/isdelr/taskvault-be/internal/monitoring"
	"github.com/isdelr/taskvault-be/internal/services"
)

// RouterConfig carries the dependencies the HTTP surface composes.
type RouterConfig struct {
	DB             *sql.DB
	Tokens         *auth.TokenManager
	Users          services.UserServiceProvider
	Todos          services.TodoServiceProvider
	Events         services.EventServiceProvider
	Stats          *monitoring.StatsCollector
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg.Users, cfg.Events, cfg.Tokens)
	todoHandler := handlers.NewTodoHandler(cfg.Todos, cfg.Events)
	activityHandler := handlers.NewActivityHandler(cfg.Events)
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Stats)

	requireAuth := auth.RequireAuth(cfg.Tokens, cfg.Users)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.GetMe)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/todos", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", todoHandler.GetAll)
			r.Post("/", todoHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", todoHandler.Get)
				r.Put("/", todoHandler.Replace)
				r.Patch("/", todoHandler.SetCompleted)
				r.Delete("/", todoHandler.Delete)
			})
		})

		r.With(requireAuth).Get("/activity", activityHandler.GetRecent)
	})

	return r
}
