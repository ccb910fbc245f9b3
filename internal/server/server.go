// Package server provides the keep-alive HTTP listener used by hosting platforms
// to probe the bot.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const aliveMessage = "Bot is alive!"

// Server answers liveness probes.
type Server struct {
	started   time.Time
	transport atomic.Value // string
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a keep-alive server listening on host:port.
func NewServer(host string, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		started: time.Now(),
		logger:  logger,
	}
	s.transport.Store("")
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// SetTransportState records the chat transport state reported on /health.
func (s *Server) SetTransportState(state string) {
	s.transport.Store(state)
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", s.handleAlive)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops. It returns nil after Stop,
// even when Stop ran first.
func (s *Server) Start() error {
	s.logger.Info("Starting keep-alive server", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleAlive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(aliveMessage))
}

type healthResponse struct {
	Status    string `json:"status"`
	Transport string `json:"transport,omitempty"`
	Uptime    string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	transport, _ := s.transport.Load().(string)
	resp := healthResponse{
		Status:    "ok",
		Transport: transport,
		Uptime:    time.Since(s.started).Truncate(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("health: encode response failed", zap.Error(err))
	}
}
