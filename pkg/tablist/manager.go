// Package tablist connects the layout engine to the players of the proxy.
//
// It provides the leaf contents of a tab list (text, spacers, fills and
// player lists), the ColumnSplit column that lists players, a builder that
// turns the configured definition into a component template, and the
// Manager that owns one View per connected player.
//
// A typical host wires it like this:
//
//	root, err := tablist.Build(cfg.TabList, registry)
//	mgr := tablist.NewManager(registry, root,
//	    tablist.WithSink(proxySink),
//	    tablist.WithDimensions(cfg.TabList.Size, cfg.TabList.Columns),
//	)
//	mgr.Join(player.Player{Name: "Notch", Server: "lobby"})
//	mgr.Refresh(ctx, id)
package tablist

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/errors"
	"github.com/matzehuels/tablistplus/pkg/layout"
	"github.com/matzehuels/tablistplus/pkg/observability"
	"github.com/matzehuels/tablistplus/pkg/player"
)

// Notifier schedules tab list sends. scheduler.Refresher implements it.
type Notifier interface {
	// SendImmediate queues a viewer ahead of everyone else.
	SendImmediate(id uuid.UUID)
	// SendLater queues a viewer behind the pending sends.
	SendLater(id uuid.UUID)
}

// Manager owns the views of all connected players.
type Manager struct {
	mu       sync.RWMutex
	views    map[uuid.UUID]*View
	root     layout.Component
	size     int
	columns  int
	registry *player.Registry
	sink     Sink
	notifier Notifier
	logger   *log.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSink sets where rendered tab lists are sent. The default drops them.
func WithSink(s Sink) ManagerOption {
	return func(m *Manager) {
		if s != nil {
			m.sink = s
		}
	}
}

// WithNotifier sets the scheduler that is told about pending sends.
func WithNotifier(n Notifier) ManagerOption {
	return func(m *Manager) { m.notifier = n }
}

// WithDimensions sets the tab list size and column count of new views.
func WithDimensions(size, columns int) ManagerOption {
	return func(m *Manager) {
		m.size = size
		m.columns = columns
	}
}

// WithLogger sets the manager logger. Views log layout problems through it.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a manager for the players of registry. root is the
// template every view is built from.
func NewManager(registry *player.Registry, root layout.Component, opts ...ManagerOption) *Manager {
	m := &Manager{
		views:    make(map[uuid.UUID]*View),
		root:     root,
		size:     layout.KeyTabSize.Default(),
		columns:  layout.KeyColumns.Default(),
		registry: registry,
		sink:     discard,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the player registry.
func (m *Manager) Registry() *player.Registry { return m.registry }

// Join registers a player, creates the player's view and schedules an
// immediate send for the player. Everyone else's list changes as well.
func (m *Manager) Join(p player.Player) (player.Player, error) {
	// The registry and the views change under m.mu together so that a
	// concurrent Leave never sees a player without a view.
	m.mu.Lock()
	p, err := m.registry.Add(p)
	if err != nil {
		m.mu.Unlock()
		return player.Player{}, err
	}
	m.views[p.ID] = newView(p.ID, m.root, m.size, m.columns, m.logger)
	m.mu.Unlock()

	m.logger.Info("player joined", "name", p.Name, "server", p.Server)
	m.notify(p.ID)
	return p, nil
}

// Leave removes a player and the player's view.
func (m *Manager) Leave(id uuid.UUID) error {
	m.mu.Lock()
	p, ok := m.registry.Remove(id)
	if !ok {
		m.mu.Unlock()
		return errors.New(errors.ErrCodePlayerNotFound, "player %s is not connected", id)
	}
	v := m.views[id]
	delete(m.views, id)
	m.mu.Unlock()
	if v != nil {
		v.close()
	}

	m.logger.Info("player left", "name", p.Name)
	m.notify(uuid.Nil)
	return nil
}

// SwitchServer records a server switch. The switching player's list is
// sent immediately because the backend server just replaced it.
func (m *Manager) SwitchServer(id uuid.UUID, server string) error {
	if err := errors.ValidateServerName(server); err != nil {
		return err
	}
	if err := m.registry.SetServer(id, server); err != nil {
		return err
	}
	m.logger.Debug("player switched server", "id", id, "server", server)
	m.notify(id)
	return nil
}

// Hide hides a player from every list and schedules a resend.
func (m *Manager) Hide(ctx context.Context, id uuid.UUID) error {
	if err := m.registry.Hide(ctx, id); err != nil {
		return err
	}
	m.notify(uuid.Nil)
	return nil
}

// Unhide reverts Hide.
func (m *Manager) Unhide(ctx context.Context, id uuid.UUID) error {
	if err := m.registry.Unhide(ctx, id); err != nil {
		return err
	}
	m.notify(uuid.Nil)
	return nil
}

// notify queues first for an immediate send and every other view for a
// later one. uuid.Nil queues everyone for later.
func (m *Manager) notify(first uuid.UUID) {
	if m.notifier == nil {
		return
	}
	if first != uuid.Nil {
		m.notifier.SendImmediate(first)
	}
	for _, id := range m.IDs() {
		if id != first {
			m.notifier.SendLater(id)
		}
	}
}

// Refresh lays out, renders and sends the tab list of one player. A layout
// that does not fit is logged and reported to the refresh hooks but still
// sent; only a failed send is returned as error.
func (m *Manager) Refresh(ctx context.Context, id uuid.UUID) error {
	v, ok := m.View(id)
	if !ok {
		return errors.New(errors.ErrCodePlayerNotFound, "player %s is not connected", id)
	}
	hooks := observability.Refresh()
	viewer := id.String()
	hooks.OnRefreshStart(ctx, viewer)
	start := time.Now()

	grid, res := v.Update()
	for _, f := range res.Failures {
		hooks.OnLayoutInfeasible(ctx, viewer, f.Needed, f.Size)
	}
	err := m.sink.Send(ctx, id, grid)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeNetwork, err, "sending tab list to %s", id)
	}
	hooks.OnRefreshComplete(ctx, viewer, used(grid), time.Since(start), err)
	return err
}

func used(g layout.Grid) int {
	n := 0
	for _, s := range g.Slots {
		if !s.IsEmpty() {
			n++
		}
	}
	return n
}

// Snapshot returns the last grid rendered for a player.
func (m *Manager) Snapshot(id uuid.UUID) (layout.Grid, bool) {
	v, ok := m.View(id)
	if !ok {
		return layout.Grid{}, false
	}
	g, _ := v.Grid()
	return g, true
}

// View returns the view of a player.
func (m *Manager) View(id uuid.UUID) (*View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.views[id]
	return v, ok
}

// Reload replaces the template and rebuilds every view. Each view is
// rebuilt under its own lock, so a concurrent refresh sees either the old
// or the new tree.
func (m *Manager) Reload(root layout.Component) {
	m.mu.Lock()
	m.root = root
	views := make([]*View, 0, len(m.views))
	for _, v := range m.views {
		views = append(views, v)
	}
	m.mu.Unlock()

	for _, v := range views {
		v.Rebuild(root)
	}
	m.logger.Info("tab lists reloaded", "views", len(views))
	if m.notifier != nil {
		for _, v := range views {
			m.notifier.SendImmediate(v.ID())
		}
	}
}

// Resize changes the dimensions of every view and of views created later.
func (m *Manager) Resize(size, columns int) error {
	if err := errors.ValidateTabSize(size); err != nil {
		return err
	}
	if err := errors.ValidateColumns(columns, size); err != nil {
		return err
	}
	m.mu.Lock()
	m.size, m.columns = size, columns
	views := make([]*View, 0, len(m.views))
	for _, v := range m.views {
		views = append(views, v)
	}
	m.mu.Unlock()

	for _, v := range views {
		v.Resize(size, columns)
	}
	m.notify(uuid.Nil)
	return nil
}

// Dimensions returns the tab list size and column count of new views.
func (m *Manager) Dimensions() (size, columns int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size, m.columns
}

// IDs returns the IDs of all players with a view, in a stable order.
func (m *Manager) IDs() []uuid.UUID {
	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.views))
	for id := range m.views {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	return ids
}

// Close deactivates every view.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range m.views {
		v.close()
		delete(m.views, id)
	}
}
