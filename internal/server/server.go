// Package server exposes the slide pipeline over HTTP
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sant0-9/carousel/internal/config"
	"github.com/sant0-9/carousel/internal/logger"
	"github.com/sant0-9/carousel/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server wires the gin engine to an http.Server
type Server struct {
	engine *gin.Engine
	cfg    *config.Config
	log    *logger.Logger
	svc    *service.Service
}

// New builds the router. Debug logging keeps gin in debug mode; anything
// else runs it in release mode.
func New(svc *service.Service, log *logger.Logger) *Server {
	cfg := svc.Config()
	if cfg.Log.Level != "debug" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Engine returns the gin engine, mostly for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) setupMiddleware() {
	s.engine.Use(RequestID())
	s.engine.Use(Recovery(s.log))
	s.engine.Use(AccessLog(s.log))
	s.engine.Use(CORS(s.cfg.Server.AllowedOrigins))

	if s.cfg.Server.Metrics {
		s.engine.Use(Metrics())
	}
}

func (s *Server) setupRoutes() {
	h := NewHandler(s.svc)

	s.engine.GET("/health", h.Health)

	if s.cfg.Server.Metrics {
		s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/schemes", h.Schemes)
		v1.POST("/chunk", h.Chunk)
		v1.POST("/structure", h.Structure)
		v1.POST("/slides", h.Slides)
		v1.POST("/export", h.Export)
	}
}

// Run serves on addr until ctx is cancelled, then drains connections
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr, "metrics", s.cfg.Server.Metrics)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
