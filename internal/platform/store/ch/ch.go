// Package ch provides the ClickHouse client used for the analytics mirror
package ch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL         string
	Role        string
	Tag         string
	DialTimeout time.Duration
	PingTimeout time.Duration
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// backend is the slice of the driver CH depends on
type backend interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Batch(ctx context.Context, table string, rows [][]any) error
	Ping(ctx context.Context) error
	Close() error
}

// CH is a thin client over clickhouse-go
type CH struct {
	b backend
}

// Open parses cfg.URL as a clickhouse DSN, tags the connection and pings it
func Open(ctx context.Context, cfg Config) (*CH, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	c := &CH{b: driverBackend{conn: conn}}

	pt := cfg.PingTimeout
	if pt <= 0 {
		pt = 5 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, pt)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ch: ping: %w", err)
	}
	return c, nil
}

// Insert appends rows to table in a single batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if c == nil || c.b == nil {
		return errors.New("ch: not connected")
	}
	if len(rows) == 0 {
		return nil
	}
	return c.b.Batch(ctx, table, rows)
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if c == nil || c.b == nil {
		return nil, errors.New("ch: not connected")
	}
	return c.b.Query(ctx, sql, args...)
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error {
	if c == nil || c.b == nil {
		return errors.New("ch: not connected")
	}
	return c.b.Ping(ctx)
}

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.b == nil {
		return nil
	}
	return c.b.Close()
}

type driverBackend struct {
	conn driver.Conn
}

func (d driverBackend) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return d.conn.Query(ctx, sql, args...)
}

func (d driverBackend) Batch(ctx context.Context, table string, rows [][]any) error {
	batch, err := d.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}

func (d driverBackend) Ping(ctx context.Context) error { return d.conn.Ping(ctx) }

func (d driverBackend) Close() error { return d.conn.Close() }
