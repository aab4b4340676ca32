// Package server exposes the todo, streak, commitment and profile services
// over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/server/handlers"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

type Config struct {
	Addr       string
	CORSOrigin string
	Debug      bool
	// Driver names the storage backend in health reports.
	Driver string
}

// AuthService signs users in and resolves their bearer tokens.
type AuthService interface {
	handlers.AuthService
	middleware.Authenticator
}

// Services are the collaborators the API is built from.
type Services struct {
	DB          handlers.Pinger
	Auth        AuthService
	Todos       handlers.TodoService
	Streaks     handlers.StreakService
	Dashboard   handlers.DashboardService
	Commitments handlers.CommitmentService
	Profile     handlers.ProfileService
	Clock       handlers.Clock
}

type Server struct {
	engine *gin.Engine
	http   *http.Server
}

// New builds the router. Gin runs in release mode unless cfg.Debug is set.
func New(cfg Config, svc Services) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg.CORSOrigin))
	RegisterRoutes(r, Handlers{
		Health:      handlers.NewHealthHandler(svc.DB, cfg.Driver),
		Auth:        handlers.NewAuthHandler(svc.Auth),
		Todos:       handlers.NewTodoHandler(svc.Todos),
		Streak:      handlers.NewStreakHandler(svc.Streaks, svc.Dashboard),
		Commitments: handlers.NewCommitmentHandler(svc.Commitments, svc.Dashboard, svc.Clock),
		Profile:     handlers.NewProfileHandler(svc.Profile),
	}, svc.Auth)

	return &Server{
		engine: r,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
