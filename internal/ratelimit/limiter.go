// Package ratelimit throttles requests per client key.
package ratelimit

import (
	"context"
	"time"
)

// Limiter records one event for key and reports whether it fits in max events per window.
type Limiter interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error)
}
