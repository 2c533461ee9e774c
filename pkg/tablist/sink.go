package tablist

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/layout"
)

// Sink delivers rendered tab lists to the viewer's client. The proxy
// implements it with its packet builder.
type Sink interface {
	Send(ctx context.Context, viewer uuid.UUID, grid layout.Grid) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, viewer uuid.UUID, grid layout.Grid) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, viewer uuid.UUID, grid layout.Grid) error {
	return f(ctx, viewer, grid)
}

// discard drops every grid.
var discard = SinkFunc(func(context.Context, uuid.UUID, layout.Grid) error { return nil })

// MemorySink keeps the last grid sent to each viewer.
type MemorySink struct {
	mu    sync.Mutex
	grids map[uuid.UUID]layout.Grid
	sends int
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{grids: make(map[uuid.UUID]layout.Grid)}
}

// Send stores grid as the viewer's last grid.
func (s *MemorySink) Send(_ context.Context, viewer uuid.UUID, grid layout.Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[viewer] = grid.Clone()
	s.sends++
	return nil
}

// Last returns the last grid sent to viewer.
func (s *MemorySink) Last(viewer uuid.UUID) (layout.Grid, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grids[viewer]
	return g, ok
}

// Sends returns the number of grids sent so far.
func (s *MemorySink) Sends() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sends
}

// LogSink logs every send at debug level. It stands in for the packet
// builder when tablistplus runs without a proxy.
func LogSink(logger *log.Logger) Sink {
	return SinkFunc(func(_ context.Context, viewer uuid.UUID, grid layout.Grid) error {
		logger.Debug("tab list sent", "viewer", viewer, "slots", len(grid.Slots), "used", used(grid))
		return nil
	})
}
