package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	tperrors "github.com/matzehuels/tablistplus/pkg/errors"
)

type fakeStore struct {
	ids  map[uuid.UUID]bool
	fail error
	ops  int
}

func newFakeStore(ids ...uuid.UUID) *fakeStore {
	s := &fakeStore{ids: make(map[uuid.UUID]bool)}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (s *fakeStore) Hide(_ context.Context, id uuid.UUID) error {
	s.ops++
	if s.fail != nil {
		return s.fail
	}
	s.ids[id] = true
	return nil
}

func (s *fakeStore) Unhide(_ context.Context, id uuid.UUID) error {
	s.ops++
	if s.fail != nil {
		return s.fail
	}
	delete(s.ids, id)
	return nil
}

func (s *fakeStore) Hidden(context.Context) ([]uuid.UUID, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	var out []uuid.UUID
	for id := range s.ids {
		out = append(out, id)
	}
	return out, nil
}

func mustAdd(t *testing.T, r *Registry, name, server string) Player {
	t.Helper()
	p, err := r.Add(Player{Name: name, Server: server})
	if err != nil {
		t.Fatalf("Add(%s) error: %v", name, err)
	}
	return p
}

func TestRegistryAdd(t *testing.T) {
	joined := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(WithClock(func() time.Time { return joined }))

	p := mustAdd(t, r, "Notch", "lobby")
	if p.ID == uuid.Nil {
		t.Error("Add() did not assign an ID")
	}
	if !p.Joined.Equal(joined) {
		t.Errorf("Joined = %v, want %v", p.Joined, joined)
	}
	if got := p.Online(joined.Add(time.Minute)); got != time.Minute {
		t.Errorf("Online() = %v, want 1m", got)
	}

	tests := []struct {
		name string
		p    Player
		code tperrors.Code
	}{
		{"invalid name", Player{Name: "x"}, tperrors.ErrCodeInvalidPlayerName},
		{"duplicate id", Player{ID: p.ID, Name: "Other"}, tperrors.ErrCodeInvalidInput},
		{"duplicate name", Player{Name: "notch"}, tperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Add(tt.p); !tperrors.Is(err, tt.code) {
				t.Errorf("Add() error = %v, want code %s", err, tt.code)
			}
		})
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryUpdate(t *testing.T) {
	r := NewRegistry()
	p := mustAdd(t, r, "Notch", "lobby")

	if err := r.SetServer(p.ID, "survival"); err != nil {
		t.Fatalf("SetServer() error: %v", err)
	}
	if err := r.SetPing(p.ID, -5); err != nil {
		t.Fatalf("SetPing() error: %v", err)
	}
	got, _ := r.Get(p.ID)
	if got.Server != "survival" || got.Ping != 0 {
		t.Errorf("Get() = %+v, want server survival ping 0", got)
	}

	if err := r.SetServer(uuid.New(), "lobby"); !tperrors.Is(err, tperrors.ErrCodePlayerNotFound) {
		t.Errorf("SetServer(unknown) error = %v, want %s", err, tperrors.ErrCodePlayerNotFound)
	}

	if _, ok := r.Remove(p.ID); !ok {
		t.Error("Remove() = false, want true")
	}
	if _, ok := r.Get(p.ID); ok {
		t.Error("Get() after Remove() found the player")
	}
}

func TestRegistryAllSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zed", "Alice", "bob"} {
		mustAdd(t, r, name, "lobby")
	}
	var names []string
	for _, p := range r.All() {
		names = append(names, p.Name)
	}
	want := []string{"Alice", "bob", "zed"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("All() = %v, want %v", names, want)
		}
	}
	if got := len(r.IDs()); got != 3 {
		t.Errorf("len(IDs()) = %d, want 3", got)
	}
}

func TestRegistryHide(t *testing.T) {
	ctx := context.Background()
	s := newFakeStore()
	r := NewRegistry(WithStore(s))
	a := mustAdd(t, r, "Alice", "lobby")
	mustAdd(t, r, "Bob", "lobby")

	if err := r.Hide(ctx, a.ID); err != nil {
		t.Fatalf("Hide() error: %v", err)
	}
	if err := r.Hide(ctx, a.ID); err != nil {
		t.Fatalf("second Hide() error: %v", err)
	}
	if s.ops != 1 {
		t.Errorf("store ops = %d, want 1", s.ops)
	}
	if !r.IsHidden(a.ID) || !s.ids[a.ID] {
		t.Error("player not hidden in registry and store")
	}
	if vis := r.Visible(); len(vis) != 1 || vis[0].Name != "Bob" {
		t.Errorf("Visible() = %v, want [Bob]", vis)
	}
	if all := r.All(); len(all) != 2 {
		t.Errorf("len(All()) = %d, want 2", len(all))
	}

	if err := r.Unhide(ctx, a.ID); err != nil {
		t.Fatalf("Unhide() error: %v", err)
	}
	if r.IsHidden(a.ID) || s.ids[a.ID] {
		t.Error("player still hidden after Unhide()")
	}
}

func TestRegistryHideStoreFailure(t *testing.T) {
	s := newFakeStore()
	s.fail = errors.New("connection refused")
	r := NewRegistry(WithStore(s))
	id := uuid.New()

	if err := r.Hide(context.Background(), id); err == nil {
		t.Fatal("Hide() succeeded with failing store")
	}
	if r.IsHidden(id) {
		t.Error("player hidden although the store write failed")
	}
}

func TestRegistryLoad(t *testing.T) {
	id := uuid.New()
	r := NewRegistry(WithStore(newFakeStore(id)))
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !r.IsHidden(id) {
		t.Error("IsHidden() = false after Load()")
	}
	if got := r.Hidden(); len(got) != 1 || got[0] != id {
		t.Errorf("Hidden() = %v, want [%s]", got, id)
	}

	if err := NewRegistry().Load(context.Background()); err != nil {
		t.Errorf("Load() without store error: %v", err)
	}
}
