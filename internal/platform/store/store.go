// Package store opens the backends Blue Bird talks to (Postgres for
// occurrences and documents, an optional ClickHouse mirror for charts and
// NATS for event fan-out) behind narrow interfaces repos can fake
package store

import (
	"context"
	"errors"
	"fmt"

	"bluebird/internal/platform/logger"
)

// Store holds whichever backends were enabled; the rest stay nil
type Store struct {
	Log  logger.Logger
	PG   TxRunner
	CH   Clickhouse
	NATS Publisher
}

type Row interface{ Scan(dest ...any) error }

type Rows interface {
	Row
	Next() bool
	Err() error
	Close()
	Columns() []string
}

type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the SQL surface shared by the pool and a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner commits when fn returns nil and rolls back otherwise
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the analytics mirror: batch inserts and read queries
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

type Publisher interface {
	Publish(subject string, data []byte) error
	Close() error
}

type Pinger interface{ Ping(context.Context) error }

// Open connects every backend enabled in cfg, in order pg, ch, nats. A
// failure closes what was already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	open := []struct {
		on bool
		fn func() error
	}{
		{cfg.PG.Enabled, func() (err error) { s.PG, err = openPG(ctx, cfg, s); return }},
		{cfg.CH.Enabled, func() (err error) { s.CH, err = openCH(ctx, cfg, s); return }},
		{cfg.NATS.Enabled, func() (err error) { s.NATS, err = openNATS(ctx, cfg, s); return }},
	}
	for _, o := range open {
		if !o.on {
			continue
		}
		if err := o.fn(); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

type backend struct {
	name string
	seam any
}

func (s *Store) backends() []backend {
	var out []backend
	if s.PG != nil {
		out = append(out, backend{"pg", s.PG})
	}
	if s.CH != nil {
		out = append(out, backend{"ch", s.CH})
	}
	if s.NATS != nil {
		out = append(out, backend{"nats", s.NATS})
	}
	return out
}

// Guard pings every backend that can be pinged and joins the failures,
// each prefixed with the backend name
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store not opened")
	}
	var errs []error
	for _, b := range s.backends() {
		if p, ok := b.seam.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases every backend, publisher first
func (s *Store) Close(context.Context) error {
	var errs []error
	bs := s.backends()
	for i := len(bs) - 1; i >= 0; i-- {
		if c, ok := bs[i].seam.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
