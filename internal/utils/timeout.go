package utils

import (
	"context"
	"time"
)

const DefaultDBTimeout = 5 * time.Second

// WithDBTimeout bounds a single storage call. A deadline already set on ctx
// (for example by the request) still applies when it is shorter.
func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
