package repo

import (
	"fmt"
	"strings"
	"time"

	"bluebird/internal/core/filter"
	"bluebird/internal/core/query"
)

// Table is the authoritative occurrence table
const Table = `"new-occurrences"`

// columns are coalesced so no scanned field is ever NULL
const columns = `id, created_at,
coalesce(chat_id, ''), coalesce(chat_name, ''), coalesce(client_name, ''),
coalesce(occurrence_name, ''), coalesce(status, ''), coalesce(description, ''),
coalesce(occurrence_resolution, ''), coalesce(key_words, ''),
coalesce(messages, '[]'::jsonb)::text, coalesce(channel, ''),
coalesce(gate_kepper, false), coalesce(squad, ''), coalesce(category, '')`

// Query is one listing request after validation
type Query struct {
	Search   string
	Status   string
	Category string
	Squad    string
	From     *time.Time
	To       *time.Time
	Sort     query.Sort
	Page     query.Page
}

// Where renders the shared predicate for the page and the count.
// Placeholders start at $1
func Where(q Query) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(format string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if v, ok := active(q.Status); ok {
		add("status = $%d", v)
	}
	if v, ok := active(q.Category); ok {
		add("category = $%d", v)
	}
	if v, ok := active(q.Squad); ok {
		add("squad = $%d", v)
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		add("(description ilike $%[1]d or chat_name ilike $%[1]d or client_name ilike $%[1]d"+
			" or key_words ilike $%[1]d or category ilike $%[1]d)", "%"+EscapeLike(term)+"%")
	}
	if q.From != nil {
		add("created_at >= $%d", *q.From)
	}
	if q.To != nil {
		add("created_at <= $%d", *q.To)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "where " + strings.Join(conds, "\nand "), args
}

// ListSQL is the page query: predicate, allow-listed order, limit and offset
func ListSQL(q Query) (string, []any) {
	where, args := Where(q)
	args = append(args, q.Page.Size, q.Page.Offset())
	sql := fmt.Sprintf("select %s\nfrom %s\n%s\n%s\nlimit $%d offset $%d",
		columns, Table, where, q.Sort.SQL(), len(args)-1, len(args))
	return sql, args
}

// CountSQL counts the rows matching the same predicate as ListSQL
func CountSQL(q Query) (string, []any) {
	where, args := Where(q)
	return fmt.Sprintf("select count(*)\nfrom %s\n%s", Table, where), args
}

// EscapeLike escapes LIKE metacharacters so the term matches literally
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// active trims v and reports whether it narrows the listing
func active(v string) (string, bool) {
	v = strings.TrimSpace(v)
	return v, v != "" && v != filter.All
}
