package ratings

import "sync/atomic"

// Store publishes the current Map. Readers never see a partially built map.
type Store struct {
	current atomic.Pointer[Map]
}

// NewStore creates a store holding initial, or an empty map when initial is nil.
func NewStore(initial *Map) *Store {
	s := &Store{}
	if initial == nil {
		initial = Empty()
	}
	s.current.Store(initial)
	return s
}

// Current returns the current snapshot. Callers must not modify it.
func (s *Store) Current() *Map {
	return s.current.Load()
}

// Swap installs next and returns the previous snapshot.
func (s *Store) Swap(next *Map) *Map {
	if next == nil {
		next = Empty()
	}
	return s.current.Swap(next)
}
