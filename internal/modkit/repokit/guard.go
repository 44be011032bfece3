package repokit

import (
	"context"
	"fmt"
	"time"
)

// bootTimeout bounds MustGuard when ctx has no deadline
const bootTimeout = 5 * time.Second

// Guarder pings every configured backend
type Guarder interface {
	Guard(context.Context) error
}

// MustGuard panics when any configured backend is unreachable at startup
func MustGuard(ctx context.Context, g Guarder) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bootTimeout)
		defer cancel()
	}
	if err := g.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
