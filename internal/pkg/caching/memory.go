package caching

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value    any
	storedAt time.Time
	gen      uint64
}

// Memory is a small in-process memo with a fixed TTL. Entries are evicted on
// two paths: an expiry check on Get and a fire-and-forget timer scheduled on
// Set. A generation counter makes the timer of an overwritten entry a no-op,
// so whichever path fires first wins and the other does nothing.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*memoryEntry
	gen     uint64
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: map[string]*memoryEntry{},
	}
}

func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}

	if time.Since(entry.storedAt) >= m.ttl {
		delete(m.entries, key)
		return nil, false
	}

	return entry.value, true
}

// Set is last-write-wins for concurrent callers on the same key.
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.entries[key] = &memoryEntry{
		value:    value,
		storedAt: time.Now(),
		gen:      gen,
	}
	m.mu.Unlock()

	time.AfterFunc(m.ttl, func() {
		m.evict(key, gen)
	})
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *Memory) evict(key string, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.gen != gen {
		return
	}
	delete(m.entries, key)
}
