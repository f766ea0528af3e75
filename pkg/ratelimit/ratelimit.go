package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether another hit for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Counter is a shared fixed-window counter, such as a Redis INCR with expiry.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// MemoryLimiter is a sliding-window limiter local to one process.
type MemoryLimiter struct {
	mu      sync.Mutex
	limits  map[string][]time.Time
	window  time.Duration
	maxHits int
	now     func() time.Time
}

func NewLimiter(window time.Duration, maxHits int) *MemoryLimiter {
	return &MemoryLimiter{
		limits:  make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	// Clean old entries
	if hits, exists := l.limits[key]; exists {
		valid := hits[:0]
		for _, hit := range hits {
			if hit.After(windowStart) {
				valid = append(valid, hit)
			}
		}
		if len(valid) == 0 {
			delete(l.limits, key)
		} else {
			l.limits[key] = valid
		}
	}

	if len(l.limits[key]) >= l.maxHits {
		return false, nil
	}

	l.limits[key] = append(l.limits[key], now)
	return true, nil
}

// CounterLimiter enforces a fixed window on top of a shared Counter, so every
// replica of the service sees the same budget.
type CounterLimiter struct {
	counter Counter
	prefix  string
	window  time.Duration
	maxHits int
}

func NewCounterLimiter(counter Counter, prefix string, window time.Duration, maxHits int) *CounterLimiter {
	return &CounterLimiter{
		counter: counter,
		prefix:  prefix,
		window:  window,
		maxHits: maxHits,
	}
}

func (l *CounterLimiter) Allow(ctx context.Context, key string) (bool, error) {
	hits, err := l.counter.Incr(ctx, l.prefix+":"+key, l.window)
	if err != nil {
		return false, err
	}
	return hits <= int64(l.maxHits), nil
}
