package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/errors"
)

// FileStore keeps the hidden set in a JSON file. The file is read once on
// open and rewritten on every change.
type FileStore struct {
	mu     sync.Mutex
	path   string
	ids    map[uuid.UUID]struct{}
	closed bool
}

// fileData is the on-disk format.
type fileData struct {
	Hidden    []uuid.UUID `json:"hidden"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewFileStore opens the store at path. A missing file is an empty set and
// the parent directory is created if it doesn't exist.
func NewFileStore(path string) (Store, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store needs a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "creating store directory")
	}
	s := &FileStore{path: path, ids: make(map[uuid.UUID]struct{})}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading %s", path)
	}
	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding %s", path)
	}
	for _, id := range fd.Hidden {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

// Hide adds id to the set and rewrites the file.
func (s *FileStore) Hide(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, "hide", func() bool {
		if _, ok := s.ids[id]; ok {
			return false
		}
		s.ids[id] = struct{}{}
		return true
	})
}

// Unhide removes id from the set and rewrites the file.
func (s *FileStore) Unhide(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, "unhide", func() bool {
		if _, ok := s.ids[id]; !ok {
			return false
		}
		delete(s.ids, id)
		return true
	})
}

// Hidden returns the set sorted by ID.
func (s *FileStore) Hidden(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return sortedIDs(s.ids), nil
}

// Close marks the store closed. The file stays on disk.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// change applies fn and persists the set if fn reports a modification.
func (s *FileStore) change(ctx context.Context, op string, fn func() bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	before := make(map[uuid.UUID]struct{}, len(s.ids))
	for id := range s.ids {
		before[id] = struct{}{}
	}
	if !fn() {
		return nil
	}
	if err := instrument(ctx, "file", op, s.write); err != nil {
		s.ids = before
		return err
	}
	return nil
}

// write replaces the file atomically.
func (s *FileStore) write() error {
	data, err := json.MarshalIndent(fileData{Hidden: sortedIDs(s.ids), UpdatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
