package ratelimit

import (
	"context"
	"fmt"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Memory is a fixed window limiter held in process memory. It serves single
// instance deployments that run without Redis.
type Memory struct {
	Store limiter.Store
}

// NewMemory returns a Memory limiter with a periodically cleaned store.
func NewMemory() *Memory {
	return &Memory{Store: memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "ratelimit",
		CleanUpInterval: time.Minute,
	})}
}

// Allow implements Limiter.
func (m *Memory) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if m == nil || m.Store == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	lim := limiter.New(m.Store, limiter.Rate{Period: window, Limit: int64(max)})
	res, err := lim.Get(ctx, key)
	if err != nil {
		return false, 0, time.Now().Add(window), fmt.Errorf("memory limiter %s: %w", key, err)
	}
	return !res.Reached, int(res.Remaining), time.Unix(res.Reset, 0), nil
}
