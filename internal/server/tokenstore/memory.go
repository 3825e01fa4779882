package tokenstore

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryUsedTokens struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

func NewMemoryUsedTokens() UsedTokens {
	return &memoryUsedTokens{items: make(map[string]time.Time), now: time.Now}
}

func (s *memoryUsedTokens) Consume(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	if _, seen := s.items[jti]; seen {
		return false, nil
	}
	s.items[jti] = now.Add(ttl)
	return true, nil
}

type window struct {
	count   int
	resetAt time.Time
}

type memoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	span    time.Duration
	max     int
	now     func() time.Time
}

// NewMemoryLimiter allows max calls per key within span. A non-positive max
// disables limiting.
func NewMemoryLimiter(span time.Duration, max int) AttemptLimiter {
	if max <= 0 {
		return Unlimited()
	}
	return &memoryLimiter{windows: make(map[string]*window), span: span, max: max, now: time.Now}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) bool {
	key = normalize(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.span)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.max
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
