// File: server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/lguibr/blammo/game"
	"github.com/lguibr/blammo/utils"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

var (
	// ErrUnknownMessage is returned for a request whose type is not handled.
	ErrUnknownMessage = errors.New("unknown message type")
	// ErrInvalidRequest wraps every rejected request argument.
	ErrInvalidRequest = errors.New("invalid request")
)

const shutdownTimeout = 5 * time.Second

// Server exposes a Level over HTTP and a websocket probe. The level is shared
// by every session and guarded by mu.
type Server struct {
	cfg    utils.ServerConfig
	logger *zap.Logger

	mu     sync.RWMutex
	level  *game.Level
	solver *game.Solver

	connMu   sync.Mutex
	sessions map[string]*session
}

func New(cfg utils.ServerConfig, level *game.Level, solver *game.Solver, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		level:    level,
		solver:   solver,
		sessions: make(map[string]*session),
	}
}

// Routes returns the HTTP handler serving GET /level and the /probe socket.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/level", s.HandleGetLevel())
	mux.Handle("/probe", websocket.Handler(s.HandleProbe()))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("address", s.cfg.Address))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.cfg.Address, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func zapSession(id string) zap.Field { return zap.String("session", id) }
