// Package server exposes the dialogue engine over HTTP and WebSocket.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wicaksana/tanya/config"
	"github.com/wicaksana/tanya/dialogue"
	"github.com/wicaksana/tanya/kb"
	"github.com/wicaksana/tanya/logger"
	"github.com/wicaksana/tanya/session"
)

// Server serves the query API, session inspection, knowledge-base stats, and
// the WebSocket chat endpoint.
type Server struct {
	cfg      *config.Config
	base     *kb.KnowledgeBase
	engine   *dialogue.Engine
	sessions *session.Manager
	limiter  *rate.Limiter // nil when rate limiting is disabled
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger

	httpServer *http.Server
}

// New wires a server over an already built engine and session store.
func New(cfg *config.Config, base *kb.KnowledgeBase, engine *dialogue.Engine, sessions *session.Manager) *Server {
	s := &Server{
		cfg:      cfg,
		base:     base,
		engine:   engine,
		sessions: sessions,
		logger:   logger.Named("server"),
	}
	if cfg.RateLimit.RPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.originAllowed(origin)
		},
	}
	return s
}

// Handler returns the fully wired HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infow("Server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Infow("Server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// originAllowed checks an Origin header value against the configured list.
// "*" allows any origin.
func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
