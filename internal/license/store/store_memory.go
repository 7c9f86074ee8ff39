package store

import (
	"context"
	"sort"
	"sync"

	"medlicense/internal/license/models"
)

// InMemoryStore keeps license records in memory. It backs tests and local
// development; production uses MongoStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	byFolio map[string]*memoryRecord
	seq     int
}

type memoryRecord struct {
	license models.License
	seq     int
}

// NewMemory constructs an empty in-memory license store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{byFolio: make(map[string]*memoryRecord)}
}

func (s *InMemoryStore) Insert(_ context.Context, license *models.License) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byFolio[license.Folio]; ok {
		return ErrDuplicateFolio
	}
	s.seq++
	s.byFolio[license.Folio] = &memoryRecord{license: *license, seq: s.seq}
	return nil
}

func (s *InMemoryStore) FindByFolio(_ context.Context, folio string) (*models.License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byFolio[folio]
	if !ok {
		return nil, ErrNotFound
	}
	copyRecord := record.license
	return &copyRecord, nil
}

func (s *InMemoryStore) FindByPatient(_ context.Context, patientID string) ([]*models.License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*memoryRecord, 0)
	for _, record := range s.byFolio {
		if record.license.PatientID == patientID {
			matched = append(matched, record)
		}
	}

	// Newest first; insertion order breaks ties for records created in the
	// same instant, matching the createdAt-descending index.
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.license.CreatedAt.Equal(b.license.CreatedAt) {
			return a.license.CreatedAt.After(b.license.CreatedAt)
		}
		return a.seq > b.seq
	})

	licenses := make([]*models.License, 0, len(matched))
	for _, record := range matched {
		copyRecord := record.license
		licenses = append(licenses, &copyRecord)
	}
	return licenses, nil
}

func (s *InMemoryStore) DeleteByFolio(_ context.Context, folio string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byFolio, folio)
	return nil
}

func (s *InMemoryStore) DeleteByPatient(_ context.Context, patientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for folio, record := range s.byFolio {
		if record.license.PatientID == patientID {
			delete(s.byFolio, folio)
		}
	}
	return nil
}

func (s *InMemoryStore) Ping(_ context.Context) error {
	return nil
}
