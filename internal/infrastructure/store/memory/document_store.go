// Package memory holds the session-scoped stores. Records and rules are
// deliberately not persisted: they live and die with the process.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/documind/docrouter/internal/core/domain"
)

// maxIDAttempts bounds collision regeneration. Random v4 collisions are
// negligible but not zero, so a duplicate is regenerated, not assumed away.
const maxIDAttempts = 5

// DocumentStore is an append-only, newest-first collection of classified
// documents. Records are kept in arrival order internally so Append stays
// O(1) amortized; List reverses into a snapshot copy.
type DocumentStore struct {
	mu      sync.RWMutex
	arrived []domain.ClassifiedDocument
	byID    map[string]int
	newID   func() string
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		byID:  make(map[string]int),
		newID: uuid.NewString,
	}
}

// Append inserts the record at the head of the logical sequence,
// assigning a fresh identifier when the record carries none. The
// returned record is the stored form.
func (s *DocumentStore) Append(record domain.ClassifiedDocument) (domain.ClassifiedDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		id, err := s.generateID()
		if err != nil {
			return domain.ClassifiedDocument{}, err
		}
		record.ID = id
	} else if _, exists := s.byID[record.ID]; exists {
		return domain.ClassifiedDocument{}, domain.WrapError(domain.ErrInvalidInput, "append record", errDuplicateID(record.ID))
	}

	s.byID[record.ID] = len(s.arrived)
	s.arrived = append(s.arrived, record)
	return record, nil
}

// List returns the full sequence newest first. The slice is a copy.
func (s *DocumentStore) List() []domain.ClassifiedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ClassifiedDocument, len(s.arrived))
	for i, doc := range s.arrived {
		out[len(s.arrived)-1-i] = doc
	}
	return out
}

func (s *DocumentStore) Get(id string) (domain.ClassifiedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return domain.ClassifiedDocument{}, domain.WrapError(domain.ErrNotFound, "get record", errUnknownID(id))
	}
	return s.arrived[idx], nil
}

func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.arrived)
}

func (s *DocumentStore) generateID() (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if _, exists := s.byID[id]; !exists {
			return id, nil
		}
	}
	return "", domain.WrapError(domain.ErrInvalidInput, "generate record id", errIDExhausted)
}
