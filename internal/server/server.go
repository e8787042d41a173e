// Package server provides the HTTP REST API for uploading resumes and reading their analyses.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jonathan/resume-insights/internal/catalog"
	"github.com/jonathan/resume-insights/internal/config"
	"github.com/jonathan/resume-insights/internal/pipeline"
	"github.com/jonathan/resume-insights/internal/server/ratelimit"
	"github.com/jonathan/resume-insights/internal/store"
)

const (
	serviceName     = "Resume Insights API"
	shutdownTimeout = 30 * time.Second
)

// Server represents the HTTP server
type Server struct {
	cfg         config.ServerConfig
	pipeline    *pipeline.Pipeline
	store       store.Store
	catalog     *catalog.Catalog
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	router      chi.Router
	httpServer  *http.Server
}

// Deps holds the collaborators the server needs.
type Deps struct {
	Pipeline *pipeline.Pipeline
	// Limiter defaults to one configured from RATE_LIMIT_* variables.
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
}

// New creates a new server instance
func New(cfg config.ServerConfig, deps Deps) (*Server, error) {
	if deps.Pipeline == nil || deps.Pipeline.Store() == nil {
		return nil, fmt.Errorf("server requires a pipeline with an analysis store")
	}
	if cfg.UploadDir == "" {
		return nil, fmt.Errorf("upload directory is empty")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		pipeline:    deps.Pipeline,
		store:       deps.Pipeline.Store(),
		catalog:     deps.Pipeline.Catalog(),
		rateLimiter: deps.Limiter,
		logger:      deps.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cfg.AllowedOrigins))
	r.Use(ratelimit.Middleware(s.rateLimiter, s.logger))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no route for %s", req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		s.errorResponse(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path))
	})

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Post("/upload", s.handleUpload)
		api.Get("/upload/status", s.handleUploadStatus)
		api.Get("/analysis", s.handleGetAnalysis)
		api.Get("/analyses", s.handleListAnalyses)
		api.Get("/analysis/summary", s.handleAnalysisSummary)
		api.Delete("/analysis/{id}", s.handleDeleteAnalysis)
		api.Get("/roles", s.handleRoles)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.rateLimiter.Stop()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
