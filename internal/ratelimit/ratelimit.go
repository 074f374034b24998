// Package ratelimit gates the anonymous dynamic-installment endpoint with a
// per-client sliding-refresh counter held in the keyed-TTL store.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/okanuzun/installment-display-service/internal/store"
)

const (
	DefaultLimit  = 15
	DefaultWindow = 60 * time.Second

	keyPrefix = "ratelimit:"
)

type Limiter struct {
	kv     store.KeyValue
	limit  int
	window time.Duration
}

func New(kv store.KeyValue) *Limiter {
	return &Limiter{kv: kv, limit: DefaultLimit, window: DefaultWindow}
}

// NewWithConfig exists for tests and non-default deployments.
func NewWithConfig(kv store.KeyValue, limit int, window time.Duration) *Limiter {
	return &Limiter{kv: kv, limit: limit, window: window}
}

// Allow reports whether clientID may proceed and counts the request when it
// may. The TTL is refreshed on every counted request, so the window slides
// from the last touch rather than a fixed clock boundary. An unknown client
// id or a store failure allows the request: this is a soft anti-abuse gate,
// availability wins.
func (l *Limiter) Allow(ctx context.Context, clientID string) bool {
	if clientID == "" {
		return true
	}

	key := keyPrefix + clientID

	value, found, err := l.kv.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Msg("rate limit store read failed, failing open")
		return true
	}

	count := 0
	if found {
		count, _ = strconv.Atoi(value)
	}

	if count >= l.limit {
		log.Warn().Str("client_id", clientID).Int("count", count).Msg("rate limit exceeded")
		return false
	}

	if err := l.kv.Set(ctx, key, strconv.Itoa(count+1), l.window); err != nil {
		log.Error().Err(err).Msg("rate limit store write failed, failing open")
	}
	return true
}
