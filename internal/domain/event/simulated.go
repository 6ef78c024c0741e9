package event

import (
	"context"
	"sync"
)

// SimulatedStore keeps user-injected events in memory, newest first.  It is
// also a Source so simulated events join the regular snapshot.
type SimulatedStore struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
}

// NewSimulatedStore returns a store retaining at most capacity events.  A
// non-positive capacity means 100.
func NewSimulatedStore(capacity int) *SimulatedStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &SimulatedStore{capacity: capacity}
}

// Add prepends e, evicting the oldest event when full.
func (s *SimulatedStore) Add(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]Event{e}, s.events...)
	if len(s.events) > s.capacity {
		s.events = s.events[:s.capacity]
	}
}

// List returns a copy of the stored events, newest first.
func (s *SimulatedStore) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of stored events.
func (s *SimulatedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Clear removes every stored event.
func (s *SimulatedStore) Clear() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}

// FetchEvents implements Source.
func (s *SimulatedStore) FetchEvents(_ context.Context) []Event {
	return s.List()
}

// MultiSource concatenates the events of several sources in order.
type MultiSource []Source

// FetchEvents implements Source.
func (m MultiSource) FetchEvents(ctx context.Context) []Event {
	var out []Event
	for _, src := range m {
		if src == nil {
			continue
		}
		out = append(out, src.FetchEvents(ctx)...)
	}
	return out
}

//Personal.AI order the ending
