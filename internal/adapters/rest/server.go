package rest

import (
	"context"
	"fmt"
	"net/http"
	"property-map/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - HTTP API сессии для браузера.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты. Вынесен отдельно, чтобы его можно было отдать httptest.
func NewRouter(handlers *SessionHandler, allowedOrigins []string, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/state", handlers.GetState)
		r.Get("/events", handlers.Subscribe)

		r.Post("/properties/reload", handlers.Reload)
		r.Post("/properties/{propertyID}/edit", handlers.BeginEdit)
		r.Delete("/properties/{propertyID}", handlers.DeleteProperty)

		r.Put("/filters", handlers.PutFilters)
		r.Post("/filters/submit", handlers.SubmitFilters)
		r.Post("/filters/clear", handlers.ClearFilters)

		r.Post("/placement/start", handlers.StartPlacement)
		r.Post("/placement/cancel", handlers.CancelPlacement)
		r.Post("/placement/submit", handlers.SubmitPlacement)

		r.Post("/map/click", handlers.MapClick)
		r.Post("/markers/{propertyID}/click", handlers.MarkerClick)

		r.Post("/edit/submit", handlers.SubmitEdit)
		r.Post("/edit/cancel", handlers.CancelEdit)

		r.Put("/page", handlers.SetPage)
	})

	return r
}

func NewServer(listenPort string, handlers *SessionHandler, allowedOrigins []string, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + listenPort,
			Handler: NewRouter(handlers, allowedOrigins, baseLogger),
		},
		logger: baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
