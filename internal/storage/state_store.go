package storage

import (
	"sync"

	"github.com/noahxzhu/homework-notify/internal/model"
)

// Store keeps the latest poll snapshot in memory. Nothing survives a restart.
type Store struct {
	mu   sync.RWMutex
	data model.Snapshot
}

func NewStore(initial model.Snapshot) *Store {
	return &Store{data: initial}
}

// Update applies fn to the snapshot under the write lock.
func (s *Store) Update(fn func(*model.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}
