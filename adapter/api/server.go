// Package api provides the HTTP API for lumina.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/lumina/pkg/observability"
)

const (
	// HeaderCorrelationID carries the correlation id in and out.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderUserID identifies the caller. Authentication happens upstream.
	HeaderUserID = "X-User-ID"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	albums  *AlbumHandler
	health  http.Handler
	handler http.Handler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server. health may be nil.
func NewServer(cfg ServerConfig, albums *AlbumHandler, health http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		albums: albums,
		health: health,
	}
	s.registerRoutes()
	s.handler = withCorrelationID(s.mux)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) registerRoutes() {
	if s.health != nil {
		s.mux.Handle("GET /health", s.health)
	} else {
		s.mux.HandleFunc("GET /health", s.handleHealth)
	}

	s.mux.HandleFunc("POST /api/v1/albums", s.albums.CreateAlbum)
	s.mux.HandleFunc("GET /api/v1/albums", s.albums.ListAlbums)
	s.mux.HandleFunc("GET /api/v1/albums/{albumID}", s.albums.GetAlbum)
	s.mux.HandleFunc("PATCH /api/v1/albums/{albumID}", s.albums.RenameAlbum)
	s.mux.HandleFunc("DELETE /api/v1/albums/{albumID}", s.albums.DeleteAlbum)
	s.mux.HandleFunc("POST /api/v1/albums/{albumID}/photos", s.albums.AddPhoto)
	s.mux.HandleFunc("DELETE /api/v1/albums/{albumID}/photos/{photoID}", s.albums.RemovePhoto)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Handler returns the root handler, routes plus middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// withCorrelationID puts the caller's correlation id, or a fresh one, in the
// request context and echoes it back.
func withCorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get(HeaderCorrelationID))
		if user := r.Header.Get(HeaderUserID); user != "" {
			ctx = observability.WithUserID(ctx, user)
		}
		w.Header().Set(HeaderCorrelationID, observability.CorrelationIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
