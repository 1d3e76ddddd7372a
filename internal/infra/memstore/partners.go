// Package memstore is the in-memory implementation of the partner store.
// The hub treats persistence as an external collaborator; this store keeps
// records for the lifetime of the process and can be swapped for a real
// backend behind port.PartnerStore.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/domain"

	"github.com/google/uuid"
)

// PartnerStore keeps partner records in memory, newest first.
type PartnerStore struct {
	mu       sync.RWMutex
	partners map[string]*domain.Partner
	order    []string // ids, insertion order (newest first)
}

// New creates an empty PartnerStore.
func New() *PartnerStore {
	return &PartnerStore{partners: make(map[string]*domain.Partner)}
}

// Create stores a new record, assigning an id and registration date.
func (s *PartnerStore) Create(_ context.Context, p *domain.Partner) (*domain.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := clone(p)
	cp.ID = uuid.NewString()
	if cp.RegistrationDate == "" {
		cp.RegistrationDate = time.Now().Format("2006-01-02")
	}
	s.partners[cp.ID] = cp
	s.order = append([]string{cp.ID}, s.order...)
	return clone(cp), nil
}

// Update replaces an existing record in place, preserving its id and
// registration date.
func (s *PartnerStore) Update(_ context.Context, p *domain.Partner) (*domain.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.partners[p.ID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "partner", ID: p.ID}
	}
	cp := clone(p)
	cp.RegistrationDate = existing.RegistrationDate
	s.partners[cp.ID] = cp
	return clone(cp), nil
}

// Get returns one record by id.
func (s *PartnerStore) Get(_ context.Context, id string) (*domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.partners[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "partner", ID: id}
	}
	return clone(p), nil
}

// List returns all records in insertion order, newest first.
func (s *PartnerStore) List(_ context.Context) ([]domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Partner, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.partners[id]; ok {
			out = append(out, *clone(p))
		}
	}
	return out, nil
}

// Delete removes a record by id.
func (s *PartnerStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.partners[id]; !ok {
		return &domain.ErrNotFound{Resource: "partner", ID: id}
	}
	delete(s.partners, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// clone deep-copies a partner so callers never share history slices with
// the store.
func clone(p *domain.Partner) *domain.Partner {
	cp := *p
	cp.ContactHistory = append([]domain.InteractionRecord(nil), p.ContactHistory...)
	return &cp
}
