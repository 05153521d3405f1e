package common

import (
	"context"
	"time"
)

// AttemptContext bounds a single SDK call. A zero timeout leaves ctx as is.
func AttemptContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
