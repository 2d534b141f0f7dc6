package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	windowStart time.Time
	count       int
}

// MemoryStore is a process-local fixed-window counter. State resets on
// restart; counters live in a plain map guarded by a mutex.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*memoryEntry
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*memoryEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if key == "" {
		return false, nil
	}

	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.items[key]
	if entry == nil || now.Sub(entry.windowStart) > window {
		entry = &memoryEntry{windowStart: now}
		s.items[key] = entry
	}

	if entry.count >= limit {
		return false, nil
	}

	entry.count++
	return true, nil
}
