// Package api assembles the HTTP surface: the session gate, the versioned
// API modules and the webhook relay
package api

import (
	"context"
	"net/http"
	"time"

	"bluebird/internal/adapters/events"
	"bluebird/internal/adapters/n8n"
	"bluebird/internal/core/version"
	"bluebird/internal/modkit"
	"bluebird/internal/modkit/httpkit"
	"bluebird/internal/modkit/module"
	"bluebird/internal/modkit/swaggerkit"
	"bluebird/internal/platform/bus"
	"bluebird/internal/platform/config"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/metrics"
	"bluebird/internal/platform/net/middleware"
	phttp "bluebird/internal/platform/net/http"
	"bluebird/internal/platform/store"

	chartsmod "bluebird/internal/services/api/charts/module"
	docsmod "bluebird/internal/services/api/documents/module"
	metahttp "bluebird/internal/services/api/meta/http"
	metamod "bluebird/internal/services/api/meta/module"
	occmod "bluebird/internal/services/api/occurrences/module"
	authmod "bluebird/internal/services/auth/module"
	hooksmod "bluebird/internal/services/webhooks/module"
)

// DefaultTimezone is the business timezone for day buckets and presets
const DefaultTimezone = "America/Sao_Paulo"

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// follower is implemented by modules that consume the in-process bus
type follower interface {
	Follow(ctx context.Context)
}

// Mount wires every module onto r. Background followers live until ctx ends
func Mount(ctx context.Context, r phttp.Router, opt Options) {
	log := opt.Logger
	if log == nil {
		log = logger.Get()
	}
	cfg := opt.Config

	var (
		pg   store.TxRunner
		ch   store.Clickhouse
		nats store.Publisher
	)
	if opt.Store != nil {
		pg, ch, nats = opt.Store.PG, opt.Store.CH, opt.Store.NATS
	}

	m := metrics.New(version.Service)
	local := bus.New[events.Event]()
	go func() {
		<-ctx.Done()
		local.Close()
	}()

	deps := modkit.Deps{
		Log:     *log,
		Cfg:     cfg,
		PG:      pg,
		CH:      ch,
		Metrics: m,
		Bus:     local,
		Events: events.New(nats,
			events.WithBus(local),
			events.WithMetrics(m),
			events.WithPrefix(cfg.MayString("NATS_SUBJECT_PREFIX", "")),
		),
		Location: location(cfg.MayString("TIMEZONE", DefaultTimezone), log),
	}

	auth := authmod.New(deps)
	authPorts := module.MustPortsOf[authmod.Ports](auth)

	occurrences := occmod.New(deps)
	docs := docsmod.New(deps)
	n8nOpts := n8n.OptionsFromConf(config.New().Prefix("N8N_"))

	meta := metamod.New(deps, modkit.WithPorts([]metahttp.Check{
		metahttp.PingCheck("pg", pg, false),
		metahttp.PingCheck("ch", ch, true),
		metahttp.PingCheck("nats", nats, true),
		metahttp.ConfiguredCheck("supabase", authPorts.Resolver.Configured),
		metahttp.ConfiguredCheck("n8n", func() bool { return n8nOpts.WebhookURL != "" }),
	}))

	mods := []module.Module{
		meta,
		auth,
		occurrences,
		chartsmod.New(deps),
		docs,
	}

	// gate and shared stack run ahead of every route, webhooks included;
	// the gate skips webhooks, assets and public prefixes itself
	r.Use(httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
		Timeout:     cfg.MayDuration("REQUEST_TIMEOUT", 0),
		SlowRequest: cfg.MayDuration("SLOW_REQUEST", 0),
		Extra:       []func(http.Handler) http.Handler{m.Middleware},
	})...)
	r.Use(authPorts.Gate.Middleware())

	r.Handle("/metrics", m.Handler())
	swaggerkit.Mount(r, opt.EnableSwagger, cfg.MayString("DOCS_TITLE", ""))
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	hooks := hooksmod.New(deps, modkit.WithMiddlewares(
		middleware.Throttle(cfg.MayInt("WEBHOOK_MAX_INFLIGHT", 32)),
	))
	hooks.MountRoutes(r)

	httpkit.MountAPIV1(r, nil, func(api httpkit.Router) {
		for _, mod := range mods {
			mod.MountRoutes(api)
		}
	})

	if f, ok := docs.(follower); ok {
		f.Follow(ctx)
	}
	occPorts := module.MustPortsOf[occmod.Ports](occurrences)
	if occPorts.DropOn != nil {
		go occPorts.DropOn(ctx, authPorts.Resolver.Ended(ctx))
	}

	log.Info().
		Str("timezone", deps.Loc().String()).
		Bool("clickhouse", ch != nil).
		Bool("nats", nats != nil).
		Bool("auth_configured", authPorts.Resolver.Configured()).
		Msg("api mounted")
}

func location(name string, log *logger.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("unknown timezone, using Sao Paulo")
		return n8n.SaoPaulo()
	}
	return loc
}
