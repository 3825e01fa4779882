// Package tokenstore tracks which operation tokens have been spent and how
// many second-factor checks an alias has made recently. Each concern has an
// in-process and a Redis implementation.
package tokenstore

import (
	"context"
	"time"
)

// UsedTokens remembers consumed token IDs until they would have expired anyway.
type UsedTokens interface {
	// Consume marks jti as spent and reports whether this call was the first.
	Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// AttemptLimiter caps second-factor checks per key within a window.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type unlimited struct{}

// Unlimited returns a limiter that allows everything.
func Unlimited() AttemptLimiter { return unlimited{} }

func (unlimited) Allow(context.Context, string) bool { return true }
