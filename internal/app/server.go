package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/documind/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/documind/internal/api/middlewares"
	"github.com/markdave123-py/documind/internal/config"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

// NewRouter builds and wires all routes. The /api group is gated by a bearer
// token only when JWT_SECRET is set. REQUEST_TIMEOUT bounds ingest and
// document listing but not the chat stream.
func NewRouter(cfg *config.Config, log *slog.Logger, ingest *handlers.IngestHandler, chat *handlers.ChatHandler, docs *handlers.DocumentHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// API routes
	r.Route("/api", func(api chi.Router) {
		if cfg.JWTSecret != "" {
			api.Use(appMiddleware.NewJWTMiddleware(cfg.JWTSecret))
		} else {
			log.Warn("JWT_SECRET not set; /api is open")
		}
		// a streamed answer runs until the model finishes or the client leaves
		api.Post("/chat", chat.Chat)

		api.Group(func(g chi.Router) {
			if cfg.RequestTimeout > 0 {
				g.Use(middleware.Timeout(cfg.RequestTimeout))
			}
			g.Post("/ingest", ingest.Ingest)
			g.Get("/documents", docs.GetDocuments)
		})
	})

	// Serve static files from the web directory
	if cfg.WebDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))
	}

	return r
}

func NewServer(cfg *config.Config, handler http.Handler, log *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
