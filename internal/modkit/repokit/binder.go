package repokit

import (
	"context"
	"fmt"
)

// Binder makes a repo of type T over one Queryer, either the pool or a tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a plain constructor to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds q and panics when q is nil; a nil Queryer is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		var zero T
		panic(fmt.Sprintf("repokit: nil Queryer binding %T", &zero))
	}
	return b.Bind(q)
}

// InTx runs fn with a T bound to one transaction of tx
// the tx commits when fn returns nil and rolls back otherwise
func InTx[T any](ctx context.Context, tx TxRunner, b Binder[T], fn func(T) error) error {
	return tx.Tx(ctx, func(q Queryer) error {
		return fn(MustBind(b, q))
	})
}
