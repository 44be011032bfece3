// Package module wires authentication: the session resolver, the gate and
// the /auth endpoints
package module

import (
	"context"

	"bluebird/internal/adapters/supaauth"
	modkit "bluebird/internal/modkit"
	"bluebird/internal/modkit/httpkit"
	"bluebird/internal/platform/config"
	"bluebird/internal/services/auth/gate"
	authhttp "bluebird/internal/services/auth/http"
	"bluebird/internal/services/auth/session"
)

// Ports are the auth module ports
type Ports struct {
	Resolver *session.Resolver
	Gate     *gate.Gate
}

type Module struct {
	b       modkit.Built
	res     *session.Resolver
	gate    *gate.Gate
	cookies authhttp.Cookies
}

// New constructs the auth module. The provider is read from SUPABASE_* and
// cookies from AUTH_*; an injected session.Provider port replaces the provider
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("auth"), modkit.WithPrefix("/auth")}, opts...)...)

	p, ok := b.Ports.(session.Provider)
	if !ok || p == nil {
		p = supaauth.NewClient(supaauth.OptionsFromConf(config.New().Prefix("SUPABASE_")))
	}
	authCfg := config.New().Prefix("AUTH_")
	cookies := authhttp.Cookies{
		Access: authCfg.MayString("COOKIE_NAME", gate.DefaultCookie),
		Secure: authCfg.MayBool("COOKIE_SECURE", true),
	}

	res := session.NewResolver(p, deps.Emitter())
	g := gate.New(res, gate.Options{
		Cookie:  cookies.Access,
		Public:  authCfg.MayCSV("PUBLIC_PATHS", gate.DefaultPublic),
		Metrics: deps.Metrics,
	})

	return &Module{
		b:       b,
		res:     res,
		gate:    g,
		cookies: cookies,
	}
}

// Ended streams the ids of users whose session ended
func (m *Module) Ended(ctx context.Context) <-chan string { return m.res.Ended(ctx) }

func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { authhttp.Register(rr, m.res, m.gate.Token, m.cookies) })
}

func (m *Module) Name() string { return m.b.Label() }

// Ports returns the resolver and gate
func (m *Module) Ports() any { return Ports{Resolver: m.res, Gate: m.gate} }
