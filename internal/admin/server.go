// Package admin implements the read-only operational HTTP surface: health
// and stats endpoints for monitoring this server, never DNS traffic and
// never zone/config mutation.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fenwick-dns/dnsd/internal/cache"
)

// Server is the admin HTTP server. It is meant to be bound to a
// loopback-only address, separate from the DNS listener.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
}

// New builds an admin server bound to addr, serving /healthz and /stats.
// cache is read for its Stats(); upstreams is the configured forward list,
// reported in /stats for operational visibility.
func New(addr string, logger *slog.Logger, c *cache.Cache, upstreams []string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	h := &handler{startTime: time.Now(), cache: c, upstreams: upstreams}
	RegisterRoutes(engine, h)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{httpServer: httpServer, engine: engine}
}

// Engine exposes the underlying gin engine, mainly for tests that want to
// drive requests with httptest without binding a real socket.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
