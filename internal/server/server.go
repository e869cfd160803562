// Package server provides the HTTP API for FounderHub.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/founderhub/founderhub/internal/ai"
	"github.com/founderhub/founderhub/internal/blobstore"
	"github.com/founderhub/founderhub/internal/directory"
	"github.com/founderhub/founderhub/internal/store"
)

// blobStore is the part of the blob store the handlers use.
type blobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Server is the HTTP server for the FounderHub API. The blob store is
// optional; image uploads answer 503 when it is not configured.
type Server struct {
	store     store.Store
	assistant ai.Assistant
	directory *directory.Index
	blobs     blobStore
	logger    *zap.Logger
	server    *http.Server
}

func New(
	st store.Store,
	assistant ai.Assistant,
	dir *directory.Index,
	blobs *blobstore.Store,
	logger *zap.Logger,
) *Server {
	s := &Server{
		store:     st,
		assistant: assistant,
		directory: dir,
		logger:    logger,
	}
	if blobs != nil {
		s.blobs = blobs
	}
	return s
}

// Start starts the HTTP server on host:port and blocks until it stops.
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/v1/assistant/ask", s.handleAsk)
	r.Post("/api/v1/founders", s.handleCreateFounder)
	r.Get("/api/v1/founders", s.handleListFounders)
	r.Get("/api/v1/founders/search", s.handleSearchFounders)
	r.Get("/api/v1/founders/{id}", s.handleGetFounder)
	r.Put("/api/v1/founders/{id}", s.handleUpdateFounder)
	r.Delete("/api/v1/founders/{id}", s.handleDeleteFounder)
	r.Post("/api/v1/founders/{id}/messages", s.handleSendMessage)
	r.Get("/api/v1/founders/{id}/messages", s.handleListMessages)
	r.Post("/api/v1/founders/{id}/image", s.handleUploadImage)
	r.Get("/health", s.handleHealth)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}
