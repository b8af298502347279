// Package repokit is the glue between domain repos and the store seams:
// binding a repo to a pool or a transaction, transaction hooks, boot guards.
package repokit

import "custintel/internal/platform/store"

// Store seams under the names repos use
type (
	Queryer    = store.RowQuerier
	TxRunner   = store.TxRunner
	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)
