package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/tupper/assistant"
	"github.com/poiesic/tupper/metrics"
)

// DefaultMaxQuestionLen bounds the question size in bytes.
const DefaultMaxQuestionLen = 2000

var (
	// ErrPipelineRequired is returned when no pipeline is provided.
	ErrPipelineRequired = errors.New("pipeline required")

	// ErrInvalidMaxQuestionLen is returned for a limit below one.
	ErrInvalidMaxQuestionLen = errors.New("max question length must be at least 1")
)

// Server routes HTTP requests to a pipeline.
type Server struct {
	pipeline       *assistant.Pipeline
	metrics        *metrics.Metrics
	maxQuestionLen int
	logger         *slog.Logger
	engine         *gin.Engine
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMetrics records HTTP metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

// WithMaxQuestionLen sets the largest accepted question in bytes.
func WithMaxQuestionLen(n int) Option {
	return func(s *Server) error {
		if n < 1 {
			return ErrInvalidMaxQuestionLen
		}
		s.maxQuestionLen = n
		return nil
	}
}

// New creates a server for pipeline.
func New(pipeline *assistant.Pipeline, opts ...Option) (*Server, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}

	s := &Server{
		pipeline:       pipeline,
		maxQuestionLen: DefaultMaxQuestionLen,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(requestID(), recovery(s.logger), accessLog(s.logger))
	if s.metrics != nil {
		engine.Use(s.metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	engine.GET("/health", s.health)
	v1 := engine.Group("/v1")
	v1.POST("/ask", s.ask)
	v1.POST("/filters", s.filters)
	return engine
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
