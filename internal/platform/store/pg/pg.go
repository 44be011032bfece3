// Package pg opens the pgx pool behind the store and traces its queries
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
	// AppName shows up as application_name in pg_stat_activity
	AppName string
}

// PG is an open pool plus the tracer and slow threshold the store adapter
// applies to every statement
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies cfg and then tune, and builds the pool. It
// does not wait for the server
func Open(ctx context.Context, cfg Config, tracer QueryTracer, tune func(*pgxpool.Config)) (*PG, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if tune != nil {
		tune(pc)
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
