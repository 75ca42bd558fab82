package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"tapestry/internal/curation/models"
	id "tapestry/pkg/domain"
	"tapestry/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of RecordStore.
//
// Each record carries its own write mutex, so mutations on one record never
// contend with mutations on another. Readers take a short read lock on the
// committed pointer only; an in-flight Execute works on a private copy and
// swaps it in atomically on success, so a failed mutation leaves no trace.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.RecordID]*memoryEntry
}

type memoryEntry struct {
	writeMu sync.Mutex   // serializes Execute calls per record
	mu      sync.RWMutex // guards the committed pointer
	rec     *models.CurationRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.RecordID]*memoryEntry)}
}

func (s *InMemory) Create(_ context.Context, record *models.CurationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return sentinel.ErrConflict
	}
	s.records[record.ID] = &memoryEntry{rec: record.Clone()}
	return nil
}

func (s *InMemory) entry(recordID id.RecordID) (*memoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.records[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return entry, nil
}

func (s *InMemory) Get(_ context.Context, recordID id.RecordID) (*models.CurationRecord, error) {
	entry, err := s.entry(recordID)
	if err != nil {
		return nil, err
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()
	return entry.rec.Clone(), nil
}

func (s *InMemory) Execute(_ context.Context, recordID id.RecordID, fn func(*models.CurationRecord) error) (*models.CurationRecord, error) {
	entry, err := s.entry(recordID)
	if err != nil {
		return nil, err
	}

	entry.writeMu.Lock()
	defer entry.writeMu.Unlock()

	entry.mu.RLock()
	working := entry.rec.Clone()
	entry.mu.RUnlock()

	if err := fn(working); err != nil {
		return nil, err
	}

	entry.mu.Lock()
	entry.rec = working
	entry.mu.Unlock()

	return working.Clone(), nil
}

func (s *InMemory) ListPublished(_ context.Context, filter PublishedFilter) ([]*models.CurationRecord, error) {
	results := s.collect(func(r *models.CurationRecord) bool {
		if r.Status != models.StatusPublished {
			return false
		}
		if filter.Sensitivity != "" && r.Sensitivity != filter.Sensitivity {
			return false
		}
		if filter.Culture != "" && r.Culture != filter.Culture {
			return false
		}
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		return results[i].PublishedAt.After(*results[j].PublishedAt)
	})
	return results, nil
}

func (s *InMemory) ListSubmittedBetween(_ context.Context, from, to time.Time) ([]*models.CurationRecord, error) {
	results := s.collect(func(r *models.CurationRecord) bool {
		return !r.SubmittedAt.Before(from) && r.SubmittedAt.Before(to)
	})
	sort.Slice(results, func(i, j int) bool {
		return results[i].SubmittedAt.Before(results[j].SubmittedAt)
	})
	return results, nil
}

func (s *InMemory) collect(match func(*models.CurationRecord) bool) []*models.CurationRecord {
	s.mu.RLock()
	entries := make([]*memoryEntry, 0, len(s.records))
	for _, entry := range s.records {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	var results []*models.CurationRecord
	for _, entry := range entries {
		entry.mu.RLock()
		if match(entry.rec) {
			results = append(results, entry.rec.Clone())
		}
		entry.mu.RUnlock()
	}
	return results
}
