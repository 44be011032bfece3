package store

import (
	"context"
	"errors"
	"testing"

	"bluebird/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakePgxRows yields int64 ids; pgx.Rows methods the adapter never calls are stubs
type fakePgxRows struct {
	ids    []int64
	i      int
	closed bool
}

func (r *fakePgxRows) Close()                        { r.closed = true }
func (r *fakePgxRows) Err() error                    { return nil }
func (r *fakePgxRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT 0") }
func (r *fakePgxRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{{Name: "id"}}
}
func (r *fakePgxRows) Next() bool {
	r.i++
	return r.i <= len(r.ids)
}
func (r *fakePgxRows) Scan(dest ...any) error {
	*dest[0].(*int64) = r.ids[r.i-1]
	return nil
}
func (r *fakePgxRows) Values() ([]any, error) { return []any{r.ids[r.i-1]}, nil }
func (r *fakePgxRows) RawValues() [][]byte    { return nil }
func (r *fakePgxRows) Conn() *pgx.Conn        { return nil }

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

type fakePgx struct {
	execErr error
	rows    *fakePgxRows
	scanErr error
}

func (f *fakePgx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("UPDATE 1"), f.execErr
}
func (f *fakePgx) Query(context.Context, string, ...any) (pgx.Rows, error) { return f.rows, nil }
func (f *fakePgx) QueryRow(context.Context, string, ...any) pgx.Row {
	return scanFunc(func(dest ...any) error {
		if f.scanErr != nil {
			return f.scanErr
		}
		*dest[0].(*int64) = 120
		return nil
	})
}

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

func TestTraced_ExecReportsTagAndError(t *testing.T) {
	tr := &recTracer{}
	boom := errors.New("boom")
	q := traced{q: &fakePgx{execErr: boom}, tracer: tr, slowUS: 0}

	ct, err := q.Exec(context.Background(), "update occurrences set status = $1", "resolvido")
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	if ct.RowsAffected() != 1 || ct.String() != "UPDATE 1" {
		t.Fatalf("tag=%v", ct)
	}
	if len(tr.events) != 1 || !errors.Is(tr.events[0].Err, boom) || !tr.events[0].Slow {
		t.Fatalf("events=%+v", tr.events)
	}
}

func TestTraced_QueryAdaptsRows(t *testing.T) {
	tr := &recTracer{}
	src := &fakePgxRows{ids: []int64{7, 9}}
	q := traced{q: &fakePgx{rows: src}, tracer: tr, slowUS: -1}

	rs, err := q.Query(context.Background(), "select id from documents")
	if err != nil {
		t.Fatal(err)
	}
	if cols := rs.Columns(); len(cols) != 1 || cols[0] != "id" {
		t.Fatalf("cols=%v", cols)
	}
	var got []int64
	for rs.Next() {
		var id int64
		if err := rs.Scan(&id); err != nil {
			t.Fatal(err)
		}
		got = append(got, id)
	}
	rs.Close()
	if len(got) != 2 || got[1] != 9 || !src.closed {
		t.Fatalf("got=%v closed=%v", got, src.closed)
	}
	if len(tr.events) != 1 || tr.events[0].Slow {
		t.Fatalf("slow threshold disabled, events=%+v", tr.events)
	}
}

func TestTraced_QueryRowReportsAfterScan(t *testing.T) {
	tr := &recTracer{}
	f := &fakePgx{}
	q := traced{q: f, tracer: tr}

	r := q.QueryRow(context.Background(), "select count(*) from occurrences")
	if len(tr.events) != 0 {
		t.Fatal("reported before scan")
	}
	var n int64
	if err := r.Scan(&n); err != nil || n != 120 {
		t.Fatalf("n=%d err=%v", n, err)
	}

	f.scanErr = pgx.ErrNoRows
	_ = q.QueryRow(context.Background(), "select 1").Scan(&n)
	if len(tr.events) != 2 || !errors.Is(tr.events[1].Err, pgx.ErrNoRows) {
		t.Fatalf("events=%+v", tr.events)
	}
}

func TestTraced_NilTracerIsQuiet(t *testing.T) {
	q := traced{q: &fakePgx{}}
	if _, err := q.Exec(context.Background(), "select 1"); err != nil {
		t.Fatal(err)
	}
}

func TestPGAdapter_NilPing(t *testing.T) {
	var a *pgAdapter
	if err := a.Ping(context.Background()); err == nil {
		t.Fatal("expected error from nil adapter")
	}
}
