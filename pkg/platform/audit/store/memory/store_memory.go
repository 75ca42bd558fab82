package memory

import (
	"context"
	"sync"

	id "tapestry/pkg/domain"
	audit "tapestry/pkg/platform/audit"
)

// InMemoryStore keeps audit events per record. Development and test use;
// durable deployments put a database-backed store behind the same interface.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.RecordID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.RecordID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.RecordID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.RecordID] = append(s.events[event.RecordID], event)
	return nil
}

func (s *InMemoryStore) ListByRecord(_ context.Context, recordID id.RecordID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[recordID]...), nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []audit.Event
	for _, recordEvents := range s.events {
		all = append(all, recordEvents...)
	}
	return all, nil
}
