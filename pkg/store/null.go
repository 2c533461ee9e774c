package store

import (
	"context"

	"github.com/google/uuid"
)

// NullStore is a no-op store that never persists anything.
// Useful for testing or when hidden players should not survive restarts.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Hide does nothing.
func (s *NullStore) Hide(ctx context.Context, id uuid.UUID) error {
	return nil
}

// Unhide does nothing.
func (s *NullStore) Unhide(ctx context.Context, id uuid.UUID) error {
	return nil
}

// Hidden always returns an empty set.
func (s *NullStore) Hidden(ctx context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
