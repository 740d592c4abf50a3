// Package server provides the HTTP API for the job description analyser.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/jd-analyser/internal/logging"
	"github.com/jonathan/jd-analyser/internal/server/ratelimit"
	"github.com/jonathan/jd-analyser/internal/types"
)

// maxBodyBytes caps the size of an /analyse request body.
const maxBodyBytes = 1 << 20

// Analyser runs the caller contract for one request.
type Analyser interface {
	Analyse(ctx context.Context, req types.AnalyseRequest) types.Outcome
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	analyser    Analyser
	logger      *logrus.Logger
	rateLimiter *ratelimit.Limiter
	handler     http.Handler
}

// Config holds server configuration
type Config struct {
	Port     int
	Analyser Analyser
	Logger   *logrus.Logger
	// RateLimit defaults to ratelimit.LoadConfig() when nil.
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Analyser == nil {
		return nil, errors.New("server requires an analyser")
	}

	s := &Server{
		analyser: cfg.Analyser,
		logger:   cfg.Logger,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyse", s.handleAnalyse)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.withRequestID(s.withLogging(s.withRateLimit(s.withCORS(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // one provider call may take up to AI_REQUEST_TIMEOUT
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving. Used by callers that
// only mount Handler.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}
