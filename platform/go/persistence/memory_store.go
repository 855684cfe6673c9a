package persistence

import (
	"context"
	"sync"
)

// MemoryStore keeps the snapshot in memory. FailNext makes the following Saves fail, for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     Documents
	saves    int
	failNext []error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (Documents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.docs == nil {
		return nil, ErrNoSnapshot
	}
	return s.docs.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, docs Documents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failNext) > 0 {
		err := s.failNext[0]
		s.failNext = s.failNext[1:]
		return err
	}
	s.docs = docs.Clone()
	s.saves++
	return nil
}

// FailNext queues errors returned by the next Save calls, one per call.
func (s *MemoryStore) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = append(s.failNext, errs...)
}

// Saves reports how many snapshots were written successfully.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

var _ SnapshotStore = (*MemoryStore)(nil)
