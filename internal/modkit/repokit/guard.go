package repokit

import (
	"context"
	"fmt"
	"time"
)

// Guarder checks its backends are reachable
type Guarder interface {
	Guard(context.Context) error
}

// GuardTimeout bounds MustGuard when ctx carries no deadline
const GuardTimeout = 5 * time.Second

// MustGuard panics unless st reports healthy. Boot code calls it once the
// store is open so a bad DSN stops the process before it serves.
func MustGuard(ctx context.Context, st Guarder) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, GuardTimeout)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
