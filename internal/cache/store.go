// Package cache is a small byte cache used for hot read paths, notably the
// per-user dashboard stats. Backends are an in-process map and Redis.
package cache

import (
	"context"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
