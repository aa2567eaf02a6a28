// Package ratelimit throttles calls to upstream market data APIs with a
// token bucket per key. Alpha Vantage free keys allow only a handful of
// requests per minute, so callers block on Wait instead of failing fast.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter keeps one token bucket per key.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket

	now func() time.Time
}

// New returns an empty limiter; buckets are created on first use.
func New() *Limiter {
	return &Limiter{m: make(map[string]*bucket), now: time.Now}
}

// PerMinute converts a requests-per-minute budget into a refill rate.
func PerMinute(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) / 60.0
}

// Allow consumes one token for key if available and reports whether it did.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.take(key, capacity, refillPerSec)
}

// Wait blocks until a token for key becomes available or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string, capacity, refillPerSec float64) error {
	for {
		l.mu.Lock()
		if l.take(key, capacity, refillPerSec) {
			l.mu.Unlock()
			return nil
		}
		delay := l.untilNextToken(key, refillPerSec)
		l.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Limiter) take(key string, capacity, refillPerSec float64) bool {
	now := l.now()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (l *Limiter) untilNextToken(key string, refillPerSec float64) time.Duration {
	b, ok := l.m[key]
	if !ok || refillPerSec <= 0 {
		return 250 * time.Millisecond
	}
	missing := 1 - b.tokens
	if missing <= 0 {
		return time.Millisecond
	}
	return time.Duration(missing / refillPerSec * float64(time.Second))
}
