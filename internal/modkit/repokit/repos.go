// Package repokit holds the seams repositories are written against
package repokit

import "bluebird/internal/platform/store"

// Queryer is the read and write surface a bound repo gets
type Queryer = store.RowQuerier

// TxRunner is a Queryer that can also open a transaction
type TxRunner = store.TxRunner

type (
	// Rows is a result set
	Rows = store.Rows

	// Row is a single row
	Row = store.Row

	// CommandTag reports affected rows
	CommandTag = store.CommandTag
)
