// Package store provides the keyed-TTL key-value storage used for rate-limit
// counters and the connection-status flag.
package store

import (
	"context"
	"time"
)

// KeyValue is a flat key-value store with per-key expiry. Get reports a
// missing or expired key with found=false, not an error.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
