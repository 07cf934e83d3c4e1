// Package cache holds the short-lived counters behind rate limiting.
//
// Redis is used when it answers a ping at boot; otherwise counters live in
// process memory and are lost on restart.
package cache

import (
	"context"
	"sync"
	"time"
)

// Counter increments a key that expires window after its first hit.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Driver() string
}

// ─── In-memory counter ───────────────────────────────────────────────────────

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryCounter is a fixed-window counter kept in a map. Expired keys are
// swept lazily on writes, so no goroutine is needed.
type MemoryCounter struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now, window)

	e, ok := m.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, nil
}

func (m *MemoryCounter) Driver() string { return "memory" }

func (m *MemoryCounter) sweep(now time.Time, window time.Duration) {
	if now.Sub(m.lastSweep) < window {
		return
	}
	m.lastSweep = now
	for k, e := range m.entries {
		if !now.Before(e.resetAt) {
			delete(m.entries, k)
		}
	}
}
