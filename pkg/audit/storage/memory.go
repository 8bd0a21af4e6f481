package storage

import (
	"context"
	"sort"
	"sync"

	"meridian-hq/meridian/pkg/audit"
)

// MemoryStorage implements audit.Storage with an in-memory map. Intended
// for tests only.
type MemoryStorage struct {
	records map[string]*audit.VerificationRecord
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory audit storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*audit.VerificationRecord),
	}
}

// Store persists a record to memory.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.records[record.ID] = &recordCopy
	return nil
}

// Query retrieves records matching the filters, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*audit.VerificationRecord
	for _, record := range s.records {
		if matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].VerifiedTime.After(results[j].VerifiedTime)
	})

	// A nil query matches everything with no pagination, mirroring
	// Count and Delete.
	start, limit := 0, 0
	if query != nil {
		start, limit = query.Offset, query.Limit
	}
	if start > len(results) {
		return []*audit.VerificationRecord{}, nil
	}
	results = results[start:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of records matching the filters.
func (s *MemoryStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes records matching the filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if matchesQuery(record, query) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close releases no resources for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

func matchesQuery(record *audit.VerificationRecord, query *audit.Query) bool {
	if query == nil {
		return true
	}
	if query.StartTime != nil && record.VerifiedTime.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.VerifiedTime.After(*query.EndTime) {
		return false
	}
	if query.Outcome != "" && record.Outcome != query.Outcome {
		return false
	}
	if query.PatientRef != "" && record.PatientRef != query.PatientRef {
		return false
	}
	if query.DocumentType != "" && record.DocumentType != query.DocumentType {
		return false
	}
	if len(query.IDs) > 0 {
		found := false
		for _, id := range query.IDs {
			if record.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
