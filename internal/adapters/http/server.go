// Package http provides the HTTP adapter layer using Gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wine-catalog/internal/platform/config"
)

// Server couples a Gin engine with an http.Server and owns its listener.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     *config.ServerConfig
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server for cfg. Every request body is capped at
// cfg.MaxRequestSize; a larger body fails to bind and is answered with 400.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(maxBodySize(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		config: cfg,
		logger: logger,
	}
}

// Engine returns the Gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfig {
	return s.config
}

// Start binds the listen address and serves in the background. A bind
// failure is delivered on the returned channel straight away; otherwise the
// channel carries any serve error and is closed once the server stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		errCh <- fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
		close(errCh)

		return errCh
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("starting HTTP server",
		slog.String("addr", ln.Addr().String()),
		slog.Duration("read_timeout", s.config.ReadTimeout),
		slog.Duration("write_timeout", s.config.WriteTimeout),
	)

	go func() {
		defer close(errCh)

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	return errCh
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")

	return nil
}

// Addr returns the bound address once started (useful with port 0) and the
// configured address before that.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.httpServer.Addr
}

func maxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
