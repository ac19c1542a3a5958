// Package ratelimit implements a per-key sliding window rate limiter used
// to cap how often expensive analysis runs can be triggered.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding window rate limiter keyed by client identity
// (typically the remote IP). Safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	events map[string][]time.Time
	now    func() time.Time
}

// New creates a Limiter allowing limit events per window per key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether key may perform another event, and records it if
// so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)
	if len(recent) >= l.limit {
		return false
	}
	l.events[key] = append(recent, now)
	return true
}

// Remaining returns how many events key has left in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.limit - len(l.prune(key, l.now()))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetAfter returns how long until key's oldest event falls out of the
// window. Zero when key is not currently limited.
func (l *Limiter) ResetAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)
	if len(recent) < l.limit {
		return 0
	}
	return recent[0].Add(l.window).Sub(now)
}

// prune drops events older than the window and returns what remains.
// Caller must hold mu.
func (l *Limiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	events := l.events[key]
	kept := events[:0]
	for _, t := range events {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.events, key)
		return nil
	}
	l.events[key] = kept
	return kept
}

// Cleanup drops all expired entries. Call periodically to bound memory
// when many distinct keys are seen.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key := range l.events {
		l.prune(key, now)
	}
}
