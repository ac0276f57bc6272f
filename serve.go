package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colorquiz/internal/config"
	"github.com/robalobadob/colorquiz/internal/httpserver"
	"github.com/robalobadob/colorquiz/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the JSON API that the web client talks to.

Sessions live in memory by default; set session.store to "sqlite" (or
SESSION_STORE=sqlite) to keep them across restarts until they go idle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides config and PORT)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	st, err := openStore(ctx, a.cfg.Session)
	if err != nil {
		return err
	}
	defer st.Close()

	gen, err := a.newGenerator()
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Options{
		Store:             st,
		Generator:         gen,
		GeneratorOptions:  a.generatorOptions(),
		ClientOrigin:      a.cfg.Server.ClientOrigin,
		RequestTimeout:    a.cfg.Server.RequestTimeout,
		JWTSecret:         a.cfg.Server.JWTSecret,
		SecureCookies:     a.cfg.Server.SecureCookies,
		DebugPasswordHash: a.cfg.Server.DebugPasswordHash,
		DailySalt:         a.cfg.Daily.Salt,
		SessionTTL:        a.cfg.Session.TTL,
		Logger:            log.Logger,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("port", a.cfg.Server.Port).
		Str("store", a.cfg.Session.Store).
		Int("min_distance", a.cfg.Game.MinDistance).
		Msg("starting colorquiz server")
	return srv.Start(ctx, ":"+a.cfg.Server.Port, a.cfg.Session.SweepInterval)
}

// openStore builds the configured session store.
func openStore(ctx context.Context, c config.SessionConfig) (store.Store, error) {
	switch c.Store {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreSQLite:
		st, err := store.NewSQLiteStore(ctx, c.DBPath)
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("store: unknown kind %q", c.Store)
	}
}
