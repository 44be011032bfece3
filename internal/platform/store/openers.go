package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	chx "bluebird/internal/platform/store/ch"
	"bluebird/internal/platform/store/pg"

	"github.com/nats-io/nats.go"
)

// openPG waits for the pool to answer, doubling the pause between pings
// up to two seconds. Boot pings go straight to the pool so they stay out of
// the SQL trace
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cmp.Or(cfg.PG.ConnectRetries, 20)
	timeout := cmp.Or(cfg.PG.PingTimeout, 3*time.Second)
	wait := 150 * time.Millisecond

	for n := 1; ; n++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err = p.Pool.Ping(pctx)
		cancel()
		if err == nil {
			return newPGAdapter(p), nil
		}
		if n == attempts {
			break
		}
		s.Log.Warn().Err(err).Int("attempt", n).Dur("retry_in", wait).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, 2*time.Second)
	}
	p.Close()
	return nil, fmt.Errorf("postgres unreachable after %d pings: %w", attempts, err)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.CH.Tag})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

// openNATS connects in the background; a broker that is down at boot is
// retried instead of failing Open
func openNATS(_ context.Context, cfg Config, s *Store) (Publisher, error) {
	if cfg.NATS.URL == "" {
		return nil, errors.New("nats: url required")
	}
	log := s.Log
	nc, err := nats.Connect(cfg.NATS.URL,
		nats.Name(cmp.Or(cfg.AppName, "bluebird")),
		nats.Timeout(cmp.Or(cfg.NATS.ConnectWait, 5*time.Second)),
		nats.ReconnectWait(cmp.Or(cfg.NATS.ReconnectWait, 2*time.Second)),
		nats.MaxReconnects(cmp.Or(cfg.NATS.MaxReconnects, 60)),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: %w", err)
	}
	return &natsAdapter{nc: nc}, nil
}

type natsAdapter struct{ nc *nats.Conn }

func (a *natsAdapter) Publish(subject string, data []byte) error {
	return a.nc.Publish(subject, data)
}

func (a *natsAdapter) Ping(ctx context.Context) error {
	if st := a.nc.Status(); st != nats.CONNECTED {
		return fmt.Errorf("nats %s", st)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	return a.nc.FlushWithContext(ctx)
}

func (a *natsAdapter) Close() error {
	a.nc.Close()
	return nil
}
