// Package scheduler decides when tab lists are sent.
//
// Sends go through a Queue of player IDs. Event driven sends (a join, a
// server switch) jump the queue, periodic resends line up behind them, and
// a player is never queued twice. A Refresher feeds the queue on a fixed
// interval and drains it with a pool of workers.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/observability"
)

// ErrClosed is returned by Next once the queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// Queue is a FIFO of player IDs without duplicates. It is safe for
// concurrent use.
type Queue struct {
	mu     sync.Mutex
	items  []uuid.UUID
	since  map[uuid.UUID]time.Time
	ready  chan struct{}
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		since: make(map[uuid.UUID]time.Time),
		ready: make(chan struct{}, 1),
	}
}

// Add appends id unless it is already queued. It reports whether id was
// added.
func (q *Queue) Add(id uuid.UUID) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	if _, ok := q.since[id]; ok {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, id)
	q.since[id] = time.Now()
	depth := len(q.items)
	q.signal()
	q.mu.Unlock()

	observability.Queue().OnEnqueue(context.Background(), id.String(), false, depth)
	return true
}

// AddFront puts id at the head of the queue, moving it there if it is
// already queued.
func (q *Queue) AddFront(id uuid.UUID) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if _, ok := q.since[id]; ok {
		q.remove(id)
	} else {
		q.since[id] = time.Now()
	}
	q.items = append(q.items, uuid.Nil)
	copy(q.items[1:], q.items)
	q.items[0] = id
	depth := len(q.items)
	q.signal()
	q.mu.Unlock()

	observability.Queue().OnEnqueue(context.Background(), id.String(), true, depth)
}

// remove deletes id from items. The caller holds mu.
func (q *Queue) remove(id uuid.UUID) {
	for i, v := range q.items {
		if v == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// signal wakes one waiting Next. The caller holds mu.
func (q *Queue) signal() {
	if q.closed {
		return
	}
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Next removes and returns the head of the queue, blocking until an ID is
// available. It returns ctx.Err() when ctx ends and ErrClosed once the
// queue is closed and empty.
func (q *Queue) Next(ctx context.Context) (uuid.UUID, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			id := q.items[0]
			q.items = q.items[1:]
			wait := time.Since(q.since[id])
			delete(q.since, id)
			if len(q.items) > 0 {
				q.signal()
			}
			q.mu.Unlock()

			observability.Queue().OnDequeue(ctx, id.String(), wait)
			return id, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return uuid.Nil, ErrClosed
		}

		select {
		case <-ctx.Done():
			return uuid.Nil, ctx.Err()
		case <-q.ready:
		}
	}
}

// Len returns the number of queued IDs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Contains reports whether id is queued.
func (q *Queue) Contains(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.since[id]
	return ok
}

// Close stops accepting IDs. Queued IDs can still be taken with Next.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ready)
	}
}
