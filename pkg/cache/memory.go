package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopgrid/storefront/pkg/catalog"
)

type memoryEntry struct {
	items    []catalog.Item
	expires  time.Time
	cachedAt time.Time
}

// Memory is an in-process Store. The key space is a small fixed set (one key
// per upstream query shape), so there is no capacity bound and no eviction
// beyond TTL expiry. Expired entries are not deleted on read; the next Set
// overwrites them wholesale.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates a memory store using the wall clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock creates a memory store with an injected clock, so TTL
// behavior is testable without sleeping.
func NewMemoryWithClock(now func() time.Time) *Memory {
	if now == nil {
		panic("clock cannot be nil")
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Get returns the cached items for key, or ErrMiss when absent or expired.
func (m *Memory) Get(_ context.Context, key Key) ([]catalog.Item, error) {
	m.mu.RLock()
	entry, ok := m.entries[key.String()]
	m.mu.RUnlock()

	if !ok || m.now().After(entry.expires) {
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrMiss
	}

	CacheHits.WithLabelValues("memory").Inc()

	// Callers sort and filter their view; hand out a copy.
	items := make([]catalog.Item, len(entry.items))
	copy(items, entry.items)
	return items, nil
}

// Set stores items under key with the given TTL, replacing any previous
// entry. A non-positive TTL stores nothing.
func (m *Memory) Set(_ context.Context, key Key, items []catalog.Item, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	now := m.now()
	m.mu.Lock()
	m.entries[key.String()] = memoryEntry{
		items:    items,
		expires:  now.Add(ttl),
		cachedAt: now,
	}
	m.mu.Unlock()

	return nil
}
