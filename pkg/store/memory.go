package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps the hidden set in memory.
type MemoryStore struct {
	mu     sync.Mutex
	ids    map[uuid.UUID]struct{}
	closed bool
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() Store {
	return &MemoryStore{ids: make(map[uuid.UUID]struct{})}
}

// Hide adds id to the set.
func (s *MemoryStore) Hide(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.ids[id] = struct{}{}
	return nil
}

// Unhide removes id from the set.
func (s *MemoryStore) Unhide(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.ids, id)
	return nil
}

// Hidden returns the set sorted by ID.
func (s *MemoryStore) Hidden(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return sortedIDs(s.ids), nil
}

// Close discards the set.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.ids = nil
	return nil
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	return ids
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
