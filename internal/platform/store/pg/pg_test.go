package pg

import (
	"context"
	"errors"
	"testing"

	"bluebird/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

const testDSN = "postgres://bluebird:pw@db:5432/bluebird?sslmode=disable"

func TestOpen_BadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpen_PoolError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("refused")
	})
	if _, err := Open(context.Background(), Config{URL: testDSN}, nil, nil); err == nil {
		t.Fatal("expected pool error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	testkit.Serial(t)
	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil
	})

	mutated := false
	p, err := Open(context.Background(), Config{URL: testDSN, MaxConns: 4, SlowMs: 250, AppName: "bluebird-api"}, nil,
		func(*pgxpool.Config) { mutated = true })
	if err != nil {
		t.Fatal(err)
	}
	if !mutated || p.SlowMs != 250 {
		t.Fatalf("mutated=%v slow=%d", mutated, p.SlowMs)
	}
	if seen.MaxConns != 4 || seen.ConnConfig.RuntimeParams["application_name"] != "bluebird-api" {
		t.Fatalf("pool config: max=%d params=%v", seen.MaxConns, seen.ConnConfig.RuntimeParams)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
