// Package repo provides postgres access for occurrences
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bluebird/internal/core/occurrence"
	"bluebird/internal/modkit/repokit"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/store"
)

// Column is a writable text column
type Column string

// Writable columns
const (
	ColumnStatus      Column = "status"
	ColumnDescription Column = "description"
	ColumnResolution  Column = "occurrence_resolution"
)

func (c Column) valid() bool {
	return c == ColumnStatus || c == ColumnDescription || c == ColumnResolution
}

// Repo is the persistence surface for occurrences
type Repo interface {
	List(ctx context.Context, q Query) ([]occurrence.Occurrence, error)
	Count(ctx context.Context, q Query) (int, error)
	Get(ctx context.Context, id int64) (occurrence.Occurrence, error)
	Window(ctx context.Context, from, to *time.Time, limit int) ([]occurrence.Occurrence, error)
	Update(ctx context.Context, id int64, col Column, value string, ifUnmodifiedSince *time.Time) (occurrence.Occurrence, error)
}

type (
	// PG binds the repo to a Queryer or TxRunner
	PG struct {
		// Guard enables the updated_at check on writes
		Guard bool
	}
	// queries implements the Repo interface
	queries struct {
		q     repokit.Queryer
		guard bool
	}
)

// NewPG returns a binder with last-writer-wins updates
func NewPG() repokit.Binder[Repo] { return PG{} }

// NewGuardedPG returns a binder whose updates honour if_unmodified_since
// against an updated_at column
func NewGuardedPG() repokit.Binder[Repo] { return PG{Guard: true} }

// Bind wires a Queryer to the repo
func (p PG) Bind(q repokit.Queryer) Repo { return &queries{q: q, guard: p.Guard} }

func (r *queries) List(ctx context.Context, q Query) ([]occurrence.Occurrence, error) {
	sql, args := ListSQL(q)
	out, err := store.Many(ctx, r.q, scanOccurrence, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list occurrences")
	}
	if out == nil {
		out = []occurrence.Occurrence{}
	}
	return out, nil
}

func (r *queries) Count(ctx context.Context, q Query) (int, error) {
	sql, args := CountSQL(q)
	n, err := store.Scalar[int64](ctx, r.q, sql, args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "count occurrences")
	}
	return int(n), nil
}

func (r *queries) Get(ctx context.Context, id int64) (occurrence.Occurrence, error) {
	sql := fmt.Sprintf("select %s\nfrom %s\nwhere id = $1", columns, Table)
	o, err := store.One(ctx, r.q, scanOccurrence, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return occurrence.Occurrence{}, perr.NotFoundf("occurrence %d not found", id)
		}
		return occurrence.Occurrence{}, perr.FromPostgres(err, "get occurrence")
	}
	return o, nil
}

func (r *queries) Window(ctx context.Context, from, to *time.Time, limit int) ([]occurrence.Occurrence, error) {
	q := Query{From: from, To: to}
	where, args := Where(q)
	args = append(args, limit)
	sql := fmt.Sprintf("select %s\nfrom %s\n%s\norder by created_at desc, id desc\nlimit $%d",
		columns, Table, where, len(args))
	out, err := store.Many(ctx, r.q, scanOccurrence, sql, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "load occurrence window")
	}
	if out == nil {
		out = []occurrence.Occurrence{}
	}
	return out, nil
}

func (r *queries) Update(ctx context.Context, id int64, col Column, value string, ifUnmodifiedSince *time.Time) (occurrence.Occurrence, error) {
	if !col.valid() {
		return occurrence.Occurrence{}, perr.InvalidArgf("column %q is not writable", col)
	}
	sql, args := UpdateSQL(col, id, value, r.guard, ifUnmodifiedSince)
	o, err := store.One(ctx, r.q, scanOccurrence, sql, args...)
	if err == nil {
		return o, nil
	}
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		return occurrence.Occurrence{}, perr.FromPostgres(err, "update occurrence")
	}
	if r.guard && ifUnmodifiedSince != nil {
		// distinguish a stale write from a missing row
		if _, gerr := r.Get(ctx, id); gerr == nil {
			return occurrence.Occurrence{}, perr.Conflictf("occurrence %d was modified by someone else", id)
		}
	}
	return occurrence.Occurrence{}, perr.NotFoundf("occurrence %d not found", id)
}

// UpdateSQL renders a single-row write returning the fresh row
func UpdateSQL(col Column, id int64, value string, guard bool, ifUnmodifiedSince *time.Time) (string, []any) {
	args := []any{value, id}
	set := fmt.Sprintf("%s = $1", col)
	where := "id = $2"
	if guard {
		set += ", updated_at = now()"
		if ifUnmodifiedSince != nil {
			args = append(args, *ifUnmodifiedSince)
			where += " and (updated_at is null or updated_at <= $3)"
		}
	}
	return fmt.Sprintf("update %s\nset %s\nwhere %s\nreturning %s", Table, set, where, columns), args
}

func scanOccurrence(row store.Row) (occurrence.Occurrence, error) {
	var (
		o        occurrence.Occurrence
		messages string
	)
	if err := row.Scan(
		&o.ID,
		&o.CreatedAt,
		&o.ChatID,
		&o.ChatName,
		&o.ClientName,
		&o.OccurrenceName,
		&o.Status,
		&o.Description,
		&o.Resolution,
		&o.Keywords,
		&messages,
		&o.Channel,
		&o.GateKeeper,
		&o.Squad,
		&o.Category,
	); err != nil {
		return o, err
	}
	o.Messages = decodeMessages(messages)
	return o, nil
}

// decodeMessages tolerates malformed snapshots and always returns a slice
func decodeMessages(raw string) []occurrence.Message {
	var out []occurrence.Message
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []occurrence.Message{}
	}
	return out
}
