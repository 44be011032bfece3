// @title         Blue Bird API
// @version       0.1.0
// @description   Occurrence monitoring, charts, documents and n8n webhooks for the Blue Bird operations dashboard

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bluebird/internal/core/version"
	"bluebird/internal/modkit/repokit"
	"bluebird/internal/platform/config"
	"bluebird/internal/platform/logger"
	phttp "bluebird/internal/platform/net/http"
	"bluebird/internal/platform/store"

	"bluebird/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	natsCfg := root.Prefix("SERVICE_NATS_")

	l := logger.Get()
	l.Info().Interface("build", version.Info()).Msg("starting")

	// clickhouse and nats are optional; charts fall back to pg and events stay in process
	chURL := chCfg.MayString("DBURL", "")
	natsURL := natsCfg.MayString("URL", "")

	st, err := store.Open(ctx,
		store.Config{
			AppName: version.Service,
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled: chURL != "",
				URL:     chURL,
				Role:    "dashboard",
				Tag:     "api",
			},
			NATS: store.NATSConfig{
				Enabled:       natsURL != "",
				URL:           natsURL,
				MaxReconnects: natsCfg.MayInt("MAX_RECONNECTS", 0),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	srv := phttp.NewServer(apiCfg)

	api.Mount(ctx, srv.Router(), api.Options{
		Config:         apiCfg,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
