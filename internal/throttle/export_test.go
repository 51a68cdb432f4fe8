package throttle

import "time"

// SetClock replaces the store clock.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

// Len reports how many counters the store holds, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}
