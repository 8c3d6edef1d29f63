package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps fixed-window counters in process memory. Counters are
// not shared across instances, which is acceptable for a single-instance
// deployment and as a degraded mode when Redis is unreachable.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count int
	reset time.Time
}

// NewMemoryStore creates an in-process counter store. A background loop
// evicts expired windows to prevent memory growth.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{windows: make(map[string]*window)}
	go s.cleanup()
	return s
}

// Incr increments the counter for key, starting a fresh window if the
// previous one expired.
func (s *MemoryStore) Incr(ctx context.Context, key string, windowDur time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w, ok := s.windows[key]
	if !ok || now.After(w.reset) {
		w = &window{reset: now.Add(windowDur)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.reset, nil
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, w := range s.windows {
			if now.After(w.reset) {
				delete(s.windows, key)
			}
		}
		s.mu.Unlock()
	}
}

var _ Store = (*MemoryStore)(nil)
