// Package memory provides an in-memory lead store for development and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/davidshroff27/leadscout/internal/store"
)

// Store keeps runs and leads in process memory.
type Store struct {
	mu    sync.RWMutex
	runs  map[string]store.SearchRun
	leads map[string][]store.Lead
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		runs:  make(map[string]store.SearchRun),
		leads: make(map[string][]store.Lead),
	}
}

// SaveRun records a run and its leads. Run IDs must be unique.
func (s *Store) SaveRun(_ context.Context, run store.SearchRun, leads []store.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; exists {
		return errors.New("run already exists")
	}
	s.runs[run.ID] = run
	s.leads[run.ID] = append([]store.Lead(nil), leads...)
	return nil
}

// GetRun returns a stored run by ID.
func (s *Store) GetRun(_ context.Context, runID string) (store.SearchRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return store.SearchRun{}, errors.New("run not found")
	}
	return run, nil
}

// ListLeads returns a copy of the leads recorded for a run.
func (s *Store) ListLeads(_ context.Context, runID string) ([]store.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	leads, ok := s.leads[runID]
	if !ok {
		return nil, errors.New("run not found")
	}
	return append([]store.Lead(nil), leads...), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() {}
