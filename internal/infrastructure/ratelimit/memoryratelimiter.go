package ratelimit

import (
	"context"
	"sync"
	"time"
)

const memorySweepInterval = time.Minute

type requestLog struct {
	window time.Duration
	times  []time.Time
}

// MemoryRateLimiter is the single-process fallback used when Redis is not
// configured. Only admitted requests are logged, so a log never grows past its
// window's limit, and keys idle for a whole window are swept.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	logs      map[string]*requestLog
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		logs: make(map[string]*requestLog),
		now:  time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string, config RateLimitConfig) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.maybeSweep(now)

	windows := config.windows()
	for _, w := range windows {
		if len(l.prune(windowKey(key, w.duration), now, w.duration)) >= w.limit {
			return false, nil
		}
	}

	for _, w := range windows {
		k := windowKey(key, w.duration)
		entry, ok := l.logs[k]
		if !ok {
			entry = &requestLog{window: w.duration}
			l.logs[k] = entry
		}
		entry.times = append(entry.times, now)
	}
	return true, nil
}

func (l *MemoryRateLimiter) GetRemaining(_ context.Context, key string, window time.Duration, limit int) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	times := l.prune(windowKey(key, window), l.now(), window)
	remaining := int64(limit - len(times))
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (l *MemoryRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, d := range []time.Duration{time.Minute, time.Hour, 24 * time.Hour} {
		delete(l.logs, windowKey(key, d))
	}
	return nil
}

// Len reports how many key/window logs are held.
func (l *MemoryRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.logs)
}

func (l *MemoryRateLimiter) prune(k string, now time.Time, window time.Duration) []time.Time {
	entry, ok := l.logs[k]
	if !ok {
		return nil
	}
	cutoff := now.Add(-window)
	i := 0
	for i < len(entry.times) && !entry.times[i].After(cutoff) {
		i++
	}
	entry.times = entry.times[i:]
	if len(entry.times) == 0 {
		delete(l.logs, k)
		return nil
	}
	return entry.times
}

// maybeSweep drops logs whose newest request has left the window. Runs at
// most once per memorySweepInterval.
func (l *MemoryRateLimiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < memorySweepInterval {
		return
	}
	l.lastSweep = now
	for k, entry := range l.logs {
		n := len(entry.times)
		if n == 0 || !entry.times[n-1].After(now.Add(-entry.window)) {
			delete(l.logs, k)
		}
	}
}

func windowKey(key string, window time.Duration) string {
	return key + ":" + window.String()
}
