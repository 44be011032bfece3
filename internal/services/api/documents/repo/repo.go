// Package repo provides the documents table queries
package repo

import (
	"context"

	"bluebird/internal/modkit/repokit"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/store"
	"bluebird/internal/services/api/documents/domain"
)

// Repo reads the documents table
type Repo interface {
	List(ctx context.Context, limit, offset int) ([]domain.Document, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (domain.Document, error)
}

// PG binds Repo to a pgx queryer
type PG struct{}

// NewPG returns the postgres binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

type queries struct{ q repokit.Queryer }

const columns = `id, created_at, coalesce(document_name, ''), coalesce(document_content, ''),
coalesce(transcript, ''), coalesce(origin_type, ''), coalesce(origin_status, '')`

func (r *queries) List(ctx context.Context, limit, offset int) ([]domain.Document, error) {
	out, err := store.Many(ctx, r.q, scanDocument,
		"select "+columns+"\nfrom documents\norder by created_at desc, id desc\nlimit $1 offset $2",
		limit, offset)
	if err != nil {
		return nil, perr.FromPostgres(err, "list documents")
	}
	return out, nil
}

func (r *queries) Count(ctx context.Context) (int, error) {
	n, err := store.Scalar[int64](ctx, r.q, "select count(*) from documents")
	if err != nil {
		return 0, perr.FromPostgres(err, "count documents")
	}
	return int(n), nil
}

func (r *queries) Get(ctx context.Context, id int64) (domain.Document, error) {
	d, err := store.One(ctx, r.q, scanDocument, "select "+columns+"\nfrom documents\nwhere id = $1", id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Document{}, perr.NotFoundf("document %d not found", id)
		}
		return domain.Document{}, perr.FromPostgres(err, "get document")
	}
	return d, nil
}

func scanDocument(row store.Row) (domain.Document, error) {
	var d domain.Document
	err := row.Scan(&d.ID, &d.CreatedAt, &d.Name, &d.Content, &d.Transcript, &d.OriginType, &d.OriginStatus)
	return d, err
}
