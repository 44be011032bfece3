// Package repo provides the chart row sources
package repo

import (
	"context"
	"fmt"
	"time"

	"bluebird/internal/core/occurrence"
	"bluebird/internal/modkit/repokit"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/store"
	occrepo "bluebird/internal/services/api/occurrences/repo"
)

// Backends
const (
	BackendPG         = "pg"
	BackendClickhouse = "clickhouse"
)

// RowSource loads the occurrences created inside [from, to]
type RowSource interface {
	Rows(ctx context.Context, from, to time.Time, limit int) ([]occurrence.Occurrence, error)
}

// NewPG reads straight from the operational table
func NewPG(q repokit.Queryer) RowSource {
	return pgSource{r: occrepo.NewPG().Bind(repokit.RequireQueryer(q))}
}

type pgSource struct{ r occrepo.Repo }

func (s pgSource) Rows(ctx context.Context, from, to time.Time, limit int) ([]occurrence.Occurrence, error) {
	return s.r.Window(ctx, &from, &to, limit)
}

// MirrorTable is the ClickHouse analytics copy of "new-occurrences"
const MirrorTable = "occurrences"

// NewClickhouse reads from the analytics mirror
func NewClickhouse(ch store.Clickhouse) RowSource {
	if ch == nil {
		panic("charts: clickhouse source requires a connection")
	}
	return chSource{ch: ch}
}

type chSource struct{ ch store.Clickhouse }

// MirrorSQL is the window query against the mirror table
func MirrorSQL(limit int) string {
	return fmt.Sprintf(`SELECT id, created_at, chat_name, client_name, status,
	channel, squad, category
FROM %s
WHERE created_at >= ? AND created_at <= ?
ORDER BY created_at DESC
LIMIT %d`, MirrorTable, limit)
}

func (s chSource) Rows(ctx context.Context, from, to time.Time, limit int) ([]occurrence.Occurrence, error) {
	rows, err := s.ch.Query(ctx, MirrorSQL(limit), from, to)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "query chart mirror")
	}
	defer rows.Close()

	out := make([]occurrence.Occurrence, 0, 64)
	for rows.Next() {
		var o occurrence.Occurrence
		if err := rows.Scan(&o.ID, &o.CreatedAt, &o.ChatName, &o.ClientName, &o.Status,
			&o.Channel, &o.Squad, &o.Category); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "scan chart mirror row")
		}
		o.Messages = []occurrence.Message{}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "iterate chart mirror")
	}
	return out, nil
}
