package server

import (
	"net/http"
	"time"

	"newsfeed-service/cmd/api/di"
	"newsfeed-service/internal/adapter/gin/router"
	"newsfeed-service/internal/config"

	"go.uber.org/zap"
)

// Server struct holds the HTTP server and its dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance with the router wired from the container
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	engine := router.SetupRouter(c.AccountH, c.PrefsH, c.NewsH, c.Tokens, l)

	addr := ":" + cfg.App.HTTPPort
	l.Info("HTTP API configured", zap.String("address", addr))

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
