package tokenstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

const redisTimeout = 500 * time.Millisecond

type redisSetNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisUsedTokens struct {
	client redisSetNXer
	prefix string
}

func NewRedisUsedTokens(client *redis.Client) UsedTokens {
	return &redisUsedTokens{client: client, prefix: "ledger:optoken:"}
}

// Consume fails closed: without Redis a token cannot be proven unused.
func (s *redisUsedTokens) Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	first, err := s.client.SetNX(ctx, s.prefix+jti, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return first, nil
}

type redisLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

// NewRedisLimiter allows max calls per key within window, counting in Redis.
// A non-positive max disables limiting.
func NewRedisLimiter(client *redis.Client, window time.Duration, max int) AttemptLimiter {
	if client == nil || max <= 0 {
		return Unlimited()
	}
	if window <= 0 {
		window = time.Minute
	}
	return &redisLimiter{client: client, window: window, max: max, prefix: "ledger:attempts:"}
}

// Allow fails open when Redis is unreachable.
func (l *redisLimiter) Allow(ctx context.Context, key string) bool {
	key = normalize(key)
	if key == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisAllowScript, []string{l.prefix + key}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
