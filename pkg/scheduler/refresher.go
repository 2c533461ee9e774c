package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Refresher resends tab lists periodically and on demand.
//
// Every Interval it queues all players returned by Players for a later
// send. Workers goroutines take IDs from Queue and call Refresh. A failed
// refresh is logged and the worker moves on. An Interval <= 0 disables the
// periodic resend; SendImmediate and SendLater keep working.
type Refresher struct {
	Interval time.Duration
	Workers  int
	Queue    *Queue
	Players  func() []uuid.UUID
	Refresh  func(ctx context.Context, id uuid.UUID) error
	Logger   *log.Logger

	once     sync.Once
	mu       sync.Mutex
	interval time.Duration
	reset    chan struct{}
}

func (r *Refresher) init() {
	r.once.Do(func() {
		if r.Queue == nil {
			r.Queue = NewQueue()
		}
		if r.Workers <= 0 {
			r.Workers = 1
		}
		if r.Logger == nil {
			r.Logger = log.NewWithOptions(io.Discard, log.Options{})
		}
		r.interval = r.Interval
		r.reset = make(chan struct{}, 1)
	})
}

// Run starts the ticker and the workers and blocks until ctx ends.
func (r *Refresher) Run(ctx context.Context) error {
	r.init()
	if r.Refresh == nil {
		return errors.New("scheduler: Refresh is required")
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return r.tick(ctx) })
	for i := 0; i < r.Workers; i++ {
		g.Go(func() error { return r.work(ctx, i) })
	}

	r.Logger.Info("refresher started", "interval", r.CurrentInterval(), "workers", r.Workers)
	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

func (r *Refresher) tick(ctx context.Context) error {
	for {
		var (
			timer *time.Timer
			fire  <-chan time.Time
		)
		if d := r.CurrentInterval(); d > 0 {
			timer = time.NewTimer(d)
			fire = timer.C
		}
		select {
		case <-ctx.Done():
			stop(timer)
			return nil
		case <-r.reset:
			stop(timer)
		case <-fire:
			r.ResendAll()
		}
	}
}

func stop(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (r *Refresher) work(ctx context.Context, worker int) error {
	logger := r.Logger.With("worker", worker)
	for {
		id, err := r.Queue.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := r.Refresh(ctx, id); err != nil {
			logger.Warn("refresh failed", "viewer", id, "err", err)
		}
	}
}

// SetInterval changes the resend interval. It takes effect immediately
// and may be called while Run is active.
func (r *Refresher) SetInterval(d time.Duration) {
	r.init()
	r.mu.Lock()
	r.interval = d
	r.mu.Unlock()
	select {
	case r.reset <- struct{}{}:
	default:
	}
}

// CurrentInterval returns the resend interval in use.
func (r *Refresher) CurrentInterval() time.Duration {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// SendImmediate queues id ahead of all pending sends.
func (r *Refresher) SendImmediate(id uuid.UUID) {
	r.init()
	r.Queue.AddFront(id)
}

// SendLater queues id behind the pending sends.
func (r *Refresher) SendLater(id uuid.UUID) {
	r.init()
	r.Queue.Add(id)
}

// ResendAll queues every player for a later send.
func (r *Refresher) ResendAll() {
	r.init()
	if r.Players == nil {
		return
	}
	for _, id := range r.Players() {
		r.Queue.Add(id)
	}
}
