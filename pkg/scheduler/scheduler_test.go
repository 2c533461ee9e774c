package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func drain(t *testing.T, q *Queue) []uuid.UUID {
	t.Helper()
	var out []uuid.UUID
	for q.Len() > 0 {
		id, err := q.Next(context.Background())
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		out = append(out, id)
	}
	return out
}

func equalIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueueDedupe(t *testing.T) {
	q := NewQueue()
	a, b := uuid.New(), uuid.New()

	if !q.Add(a) || !q.Add(b) {
		t.Fatal("Add() = false for new ids")
	}
	if q.Add(a) {
		t.Error("Add() = true for queued id")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	if got := drain(t, q); !equalIDs(got, []uuid.UUID{a, b}) {
		t.Errorf("order = %v, want [a b]", got)
	}
	if q.Contains(a) {
		t.Error("Contains() = true after Next")
	}
}

func TestQueueAddFront(t *testing.T) {
	q := NewQueue()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	q.Add(a)
	q.Add(b)
	q.AddFront(c)
	q.AddFront(b)

	if got := drain(t, q); !equalIDs(got, []uuid.UUID{b, c, a}) {
		t.Errorf("order = %v, want [b c a]", got)
	}
}

func TestQueueNextBlocks(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next() on empty queue error = %v, want deadline exceeded", err)
	}

	id := uuid.New()
	got := make(chan uuid.UUID, 1)
	go func() {
		v, _ := q.Next(context.Background())
		got <- v
	}()
	time.Sleep(5 * time.Millisecond)
	q.Add(id)

	select {
	case v := <-got:
		if v != id {
			t.Errorf("Next() = %v, want %v", v, id)
		}
	case <-time.After(time.Second):
		t.Fatal("Next() did not wake up after Add")
	}
}

func TestQueueClose(t *testing.T) {
	q := NewQueue()
	id := uuid.New()
	q.Add(id)
	q.Close()
	q.Close()

	if q.Add(uuid.New()) {
		t.Error("Add() after Close = true")
	}
	if v, err := q.Next(context.Background()); err != nil || v != id {
		t.Errorf("Next() = %v, %v, want queued id", v, err)
	}
	if _, err := q.Next(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Next() on drained closed queue error = %v, want %v", err, ErrClosed)
	}
}

type recorder struct {
	mu    sync.Mutex
	calls []uuid.UUID
	done  chan struct{}
	want  int
}

func newRecorder(want int) *recorder {
	return &recorder{done: make(chan struct{}), want: want}
}

func (r *recorder) refresh(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, id)
	if len(r.calls) == r.want {
		close(r.done)
	}
	return nil
}

func (r *recorder) wait(t *testing.T) []uuid.UUID {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refreshes")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.calls[:r.want]...)
}

func run(t *testing.T, r *Refresher) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()
	return func() {
		cancel()
		if err := <-errc; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	}
}

func TestRefresherOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	rec := newRecorder(3)
	r := &Refresher{Workers: 1, Refresh: rec.refresh}
	r.SendLater(a)
	r.SendLater(b)
	r.SendImmediate(c)

	stop := run(t, r)
	defer stop()
	if got := rec.wait(t); !equalIDs(got, []uuid.UUID{c, a, b}) {
		t.Errorf("refresh order = %v, want [c a b]", got)
	}
}

func TestRefresherPeriodic(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	rec := newRecorder(4)
	r := &Refresher{
		Interval: 10 * time.Millisecond,
		Workers:  2,
		Players:  func() []uuid.UUID { return ids },
		Refresh:  rec.refresh,
	}
	stop := run(t, r)
	defer stop()

	seen := make(map[uuid.UUID]int)
	for _, id := range rec.wait(t) {
		seen[id]++
	}
	if seen[ids[0]] == 0 || seen[ids[1]] == 0 {
		t.Errorf("periodic refreshes = %v, want both players", seen)
	}
}

func TestRefresherDisabledInterval(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	r := &Refresher{
		Interval: 0,
		Players:  func() []uuid.UUID { return []uuid.UUID{uuid.New()} },
		Refresh: func(context.Context, uuid.UUID) error {
			mu.Lock()
			calls++
			mu.Unlock()
			return nil
		},
	}
	stop := run(t, r)
	time.Sleep(30 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("refreshes with disabled interval = %d, want 0", calls)
	}
}

func TestRefresherSetInterval(t *testing.T) {
	id := uuid.New()
	rec := newRecorder(1)
	r := &Refresher{
		Players: func() []uuid.UUID { return []uuid.UUID{id} },
		Refresh: rec.refresh,
	}
	stop := run(t, r)
	defer stop()

	r.SetInterval(5 * time.Millisecond)
	if got := r.CurrentInterval(); got != 5*time.Millisecond {
		t.Errorf("CurrentInterval() = %v, want 5ms", got)
	}
	if got := rec.wait(t); got[0] != id {
		t.Errorf("refreshed %v, want %v", got[0], id)
	}
}

func TestRefresherContinuesAfterFailure(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rec := newRecorder(2)
	r := &Refresher{
		Workers: 1,
		Refresh: func(ctx context.Context, id uuid.UUID) error {
			rec.refresh(ctx, id)
			return errors.New("send failed")
		},
	}
	r.SendLater(a)
	r.SendLater(b)

	stop := run(t, r)
	defer stop()
	if got := rec.wait(t); !equalIDs(got, []uuid.UUID{a, b}) {
		t.Errorf("refreshes = %v, want [a b]", got)
	}
}

func TestRefresherRequiresRefresh(t *testing.T) {
	r := &Refresher{}
	if err := r.Run(context.Background()); err == nil {
		t.Error("Run() without Refresh succeeded")
	}
}
