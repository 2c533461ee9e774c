// Package player tracks the players connected to the proxy.
//
// The Registry is the single source of truth the tab list components read
// from. It is safe for concurrent use: the proxy's event handlers write to
// it while refresh workers read snapshots. Readers always receive copies.
//
// Hidden players are kept in the registry and persisted through a
// HiddenStore. They stay connected but never show up in any player list.
package player

import (
	"cmp"
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/errors"
)

// Player is a connected player.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Server   string    `json:"server"`
	Ping     int       `json:"ping"`
	GameMode int       `json:"game_mode"`
	Joined   time.Time `json:"joined"`
}

// Online returns how long the player has been connected at now.
func (p Player) Online(now time.Time) time.Duration {
	if p.Joined.IsZero() {
		return 0
	}
	return now.Sub(p.Joined)
}

// HiddenStore persists the set of hidden players. store.Store implements it.
type HiddenStore interface {
	Hide(ctx context.Context, id uuid.UUID) error
	Unhide(ctx context.Context, id uuid.UUID) error
	Hidden(ctx context.Context) ([]uuid.UUID, error)
}

// Registry holds the connected players and the hidden set.
type Registry struct {
	mu      sync.RWMutex
	players map[uuid.UUID]Player
	hidden  map[uuid.UUID]struct{}
	store   HiddenStore
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithStore persists hidden players to s.
func WithStore(s HiddenStore) Option {
	return func(r *Registry) { r.store = s }
}

// WithLogger sets the registry logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now for join timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		players: make(map[uuid.UUID]Player),
		hidden:  make(map[uuid.UUID]struct{}),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the hidden set with the one persisted in the store.
func (r *Registry) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	ids, err := r.store.Hidden(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.hidden)
	for _, id := range ids {
		r.hidden[id] = struct{}{}
	}
	r.logger.Debug("loaded hidden players", "count", len(ids))
	return nil
}

// Add registers a connected player. A zero ID gets a random one and a zero
// Joined time is set to now. The stored player is returned.
func (r *Registry) Add(p Player) (Player, error) {
	if err := errors.ValidatePlayerName(p.Name); err != nil {
		return Player{}, err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Joined.IsZero() {
		p.Joined = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.ID]; ok {
		return Player{}, errors.New(errors.ErrCodeInvalidInput, "player %s is already connected", p.ID)
	}
	for _, other := range r.players {
		if strings.EqualFold(other.Name, p.Name) {
			return Player{}, errors.New(errors.ErrCodeInvalidInput, "player name %s is already connected", p.Name)
		}
	}
	r.players[p.ID] = p
	return p, nil
}

// Remove unregisters a player and returns it.
func (r *Registry) Remove(id uuid.UUID) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	delete(r.players, id)
	return p, ok
}

// Get returns the player with the given ID.
func (r *Registry) Get(id uuid.UUID) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// SetServer records that a player switched to another backend server.
func (r *Registry) SetServer(id uuid.UUID, server string) error {
	return r.update(id, func(p *Player) { p.Server = server })
}

// SetPing records a player's latency in milliseconds.
func (r *Registry) SetPing(id uuid.UUID, ping int) error {
	return r.update(id, func(p *Player) { p.Ping = max(ping, 0) })
}

func (r *Registry) update(id uuid.UUID, fn func(*Player)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return errors.New(errors.ErrCodePlayerNotFound, "player %s is not connected", id)
	}
	fn(&p)
	r.players[id] = p
	return nil
}

// Len returns the number of connected players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// IDs returns the IDs of all connected players, hidden ones included.
func (r *Registry) IDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	return ids
}

// All returns every connected player sorted by name.
func (r *Registry) All() []Player {
	return r.collect(false)
}

// Visible returns the connected players that are not hidden, sorted by
// name.
func (r *Registry) Visible() []Player {
	return r.collect(true)
}

func (r *Registry) collect(visibleOnly bool) []Player {
	r.mu.RLock()
	out := make([]Player, 0, len(r.players))
	for id, p := range r.players {
		if _, hidden := r.hidden[id]; visibleOnly && hidden {
			continue
		}
		out = append(out, p)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, ByName)
	return out
}

// ByName orders players by case-insensitive name, then by ID.
func ByName(a, b Player) int {
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

// Hide hides a player from every player list. The player does not have to
// be connected. Hiding a hidden player does nothing.
func (r *Registry) Hide(ctx context.Context, id uuid.UUID) error {
	if r.IsHidden(id) {
		return nil
	}
	if r.store != nil {
		if err := r.store.Hide(ctx, id); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.hidden[id] = struct{}{}
	r.mu.Unlock()
	r.logger.Info("player hidden", "id", id)
	return nil
}

// Unhide makes a hidden player visible again. Unhiding a visible player
// does nothing.
func (r *Registry) Unhide(ctx context.Context, id uuid.UUID) error {
	if !r.IsHidden(id) {
		return nil
	}
	if r.store != nil {
		if err := r.store.Unhide(ctx, id); err != nil {
			return err
		}
	}
	r.mu.Lock()
	delete(r.hidden, id)
	r.mu.Unlock()
	r.logger.Info("player unhidden", "id", id)
	return nil
}

// IsHidden reports whether a player is hidden.
func (r *Registry) IsHidden(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.hidden[id]
	return ok
}

// Hidden returns the IDs of all hidden players.
func (r *Registry) Hidden() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(r.hidden))
	for id := range r.hidden {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	return ids
}
