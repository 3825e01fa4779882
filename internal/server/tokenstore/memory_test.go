package tokenstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsedTokens_SingleUse(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUsedTokens()

	first, err := s.Consume(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := s.Consume(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	other, err := s.Consume(ctx, "jti-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)

	blank, err := s.Consume(ctx, " ", time.Minute)
	require.NoError(t, err)
	assert.False(t, blank)
}

func TestMemoryUsedTokens_ConcurrentConsumeHasOneWinner(t *testing.T) {
	s := NewMemoryUsedTokens()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Consume(context.Background(), "jti", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryUsedTokens_ForgetsExpired(t *testing.T) {
	s := NewMemoryUsedTokens().(*memoryUsedTokens)
	now := time.Unix(1700000000, 0)
	s.now = func() time.Time { return now }

	_, _ = s.Consume(context.Background(), "old", time.Minute)
	now = now.Add(2 * time.Minute)
	_, _ = s.Consume(context.Background(), "new", time.Minute)

	assert.NotContains(t, s.items, "old")
	assert.Contains(t, s.items, "new")
}

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(time.Minute, 3).(*memoryLimiter)
	now := time.Unix(1700000000, 0)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "Juan.123"), "attempt %d", i+1)
	}
	assert.False(t, l.Allow(ctx, " juan.123 "), "keys are normalized")
	assert.True(t, l.Allow(ctx, "ana.55"), "keys are independent")
	assert.False(t, l.Allow(ctx, ""))

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow(ctx, "juan.123"), "window resets")
}

func TestMemoryLimiter_Disabled(t *testing.T) {
	l := NewMemoryLimiter(time.Minute, 0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow(context.Background(), "juan.123"))
	}
}
