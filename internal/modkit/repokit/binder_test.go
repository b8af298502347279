package repokit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custintel/internal/platform/store"
	"custintel/internal/platform/testkit"
)

type fakeQ struct{ name string }

func (f *fakeQ) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, nil
}

func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, nil
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

var _ Queryer = (*fakeQ)(nil)

// ledger stands in for a domain repo; it remembers which queryer it was bound to
type ledger struct{ q Queryer }

var ledgerBinder = BindFunc[*ledger](func(q Queryer) *ledger { return &ledger{q: q} })

func TestMustBind(t *testing.T) {
	pool := &fakeQ{name: "pool"}
	got := MustBind[*ledger](ledgerBinder, pool)
	assert.Same(t, pool, got.q)

	testkit.MustPanicWith(t, "repokit: nil Queryer binding **repokit.ledger", func() {
		_ = MustBind[*ledger](ledgerBinder, nil)
	})
}

func TestInTx_BindsToTxQueryer(t *testing.T) {
	txQ := &fakeQ{name: "tx"}
	runner := &fakeTxRunner{Queryer: txQ}

	var seen *ledger
	err := InTx(context.Background(), runner, ledgerBinder, func(l *ledger) error {
		seen = l
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Same(t, txQ, seen.q, "repo must run on the tx, not the pool")
	assert.Equal(t, 1, runner.called)
}

func TestInTx_PropagatesErrors(t *testing.T) {
	want := errors.New("insert training run")
	err := InTx(context.Background(), &fakeTxRunner{Queryer: &fakeQ{}}, ledgerBinder, func(*ledger) error { return want })
	assert.ErrorIs(t, err, want)

	commit := errors.New("commit failed")
	err = InTx(context.Background(), &fakeTxRunner{Queryer: &fakeQ{}, err: commit}, ledgerBinder, func(*ledger) error { return nil })
	assert.ErrorIs(t, err, commit)
}
