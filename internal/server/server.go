package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options configures the HTTP server
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server runs the HTTP API until a signal or Stop
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	ctx             context.Context
	cancel          context.CancelFunc
	listening       chan net.Addr
}

// NewRouter wires middleware and routes
func NewRouter(h *Handler, logger *zap.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(RequestID)
	router.Use(Logger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", h.Healthz)
	router.Get("/readyz", h.Readyz)
	router.Get("/calculate", h.Calculate)

	return router
}

// New creates a server for the handler
func New(opts Options, h *Handler, logger *zap.Logger) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      NewRouter(h, logger),
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
		listening:       make(chan net.Addr, 1),
	}
}

// Start serves until SIGINT/SIGTERM or Stop, then shuts down gracefully
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.listening <- nil
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listening <- ln.Addr()

	s.logger.Info("HTTP server started", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)

	case sig := <-sigChan:
		s.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case <-s.ctx.Done():
		s.logger.Info("Server stop requested")
	}

	return s.shutdown()
}

// Addr blocks until Start has tried to listen and returns the address,
// or nil when listening failed
func (s *Server) Addr() net.Addr {
	addr := <-s.listening
	s.listening <- addr
	return addr
}

// Stop asks a running server to shut down
func (s *Server) Stop() {
	s.cancel()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
