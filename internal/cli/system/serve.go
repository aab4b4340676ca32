package system

import (
	"fmt"

	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/server"
	"github.com/julianstephens/ogtodo/internal/translator"
)

type ServeCmd struct {
	Addr       string `help:"Listen address. Overrides listen_addr."`
	CORSOrigin string `name:"cors-origin" help:"Allowed CORS origin. Overrides cors_origin."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := translator.Init(); err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	cfg := server.Config{
		Addr:       ctx.Config.ListenAddr,
		CORSOrigin: ctx.Config.CORSOrigin,
		Debug:      ctx.Config.Debug,
		Driver:     "postgres",
	}
	if ctx.IsSQLite() {
		cfg.Driver = "sqlite"
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.CORSOrigin != "" {
		cfg.CORSOrigin = c.CORSOrigin
	}

	srv := server.New(cfg, server.Services{
		DB:          ctx.Store,
		Auth:        svc.Auth,
		Todos:       svc.Todos,
		Streaks:     svc.Streaks,
		Dashboard:   svc.Dashboard,
		Commitments: svc.Commitments,
		Profile:     svc.Profile,
		Clock:       ctx.Clock(),
	})

	logger.Info("Starting API server", "addr", cfg.Addr, "driver", cfg.Driver)
	ctx.Printf("Listening on %s\n", cfg.Addr)
	return srv.Run(ctx.Context())
}
