package repokit

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BeginHook runs first inside every transaction, on the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns inner with hooks run at the start of each Tx.
// Statements outside Tx pass straight through; nil hooks are dropped.
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	var live []BeginHook
	for _, h := range hooks {
		if h != nil {
			live = append(live, h)
		}
	}
	if len(live) == 0 {
		return inner
	}
	return hooked{TxRunner: inner, hooks: live}
}

var settingName = regexp.MustCompile(`^[a-z_]+(\.[a-z_]+)?$`)

// SetLocal sets a postgres run time parameter for the rest of the tx.
// set local takes no bind parameters, so name must be a plain identifier.
func SetLocal(name, value string) BeginHook {
	if !settingName.MatchString(name) {
		panic(fmt.Sprintf("repokit: bad setting name %q", name))
	}
	stmt := fmt.Sprintf("set local %s = '%s'", name, strings.ReplaceAll(value, "'", "''"))
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, stmt)
		return err
	}
}

// StatementTimeout bounds each statement of the tx; d <= 0 is no hook
func StatementTimeout(d time.Duration) BeginHook { return msSetting("statement_timeout", d) }

// LockTimeout bounds waits for row and table locks; d <= 0 is no hook
func LockTimeout(d time.Duration) BeginHook { return msSetting("lock_timeout", d) }

func msSetting(name string, d time.Duration) BeginHook {
	if d <= 0 {
		return nil
	}
	return SetLocal(name, fmt.Sprintf("%dms", d.Milliseconds()))
}

type hooked struct {
	TxRunner
	hooks []BeginHook
}

func (h hooked) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return fmt.Errorf("begin hook: %w", err)
			}
		}
		return fn(q)
	})
}
