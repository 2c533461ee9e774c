package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/config"
	"github.com/matzehuels/tablistplus/pkg/layout"
	"github.com/matzehuels/tablistplus/pkg/player"
	"github.com/matzehuels/tablistplus/pkg/tablist"
)

// sandbox is a manager populated with synthetic players. The layout and
// preview commands use it to show a configuration without a proxy.
type sandbox struct {
	cfg     *config.Config
	mgr     *tablist.Manager
	sink    *tablist.MemorySink
	servers []string
	joined  []uuid.UUID // join order, the first is the viewer
	next    int
}

func newSandbox(cfg *config.Config, servers []string, logger *log.Logger) (*sandbox, error) {
	reg := player.NewRegistry(player.WithLogger(logger))
	root, err := tablist.Build(cfg.TabList, reg)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		servers = []string{"lobby"}
	}
	sink := tablist.NewMemorySink()
	mgr := tablist.NewManager(reg, root,
		tablist.WithSink(sink),
		tablist.WithDimensions(cfg.TabList.Size, cfg.TabList.Columns),
		tablist.WithLogger(logger),
	)
	return &sandbox{cfg: cfg, mgr: mgr, sink: sink, servers: servers}, nil
}

// parseServers splits the --servers flag.
func parseServers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// syntheticPlayer returns the n-th synthetic player. IDs are derived from
// the name so repeated runs produce the same output.
func syntheticPlayer(n int, servers []string) player.Player {
	name := fmt.Sprintf("Player%02d", n)
	return player.Player{
		ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Name:   name,
		Server: servers[n%len(servers)],
		Ping:   (n * 37) % 300,
	}
}

// add joins n more synthetic players.
func (s *sandbox) add(n int) error {
	for range n {
		p, err := s.mgr.Join(syntheticPlayer(s.next, s.servers))
		if err != nil {
			return err
		}
		s.next++
		s.joined = append(s.joined, p.ID)
	}
	return nil
}

// removeLast disconnects the most recently joined player. The viewer is
// never removed.
func (s *sandbox) removeLast() bool {
	if len(s.joined) < 2 {
		return false
	}
	last := s.joined[len(s.joined)-1]
	if err := s.mgr.Leave(last); err != nil {
		return false
	}
	s.joined = s.joined[:len(s.joined)-1]
	return true
}

// players returns the number of connected synthetic players.
func (s *sandbox) players() int { return len(s.joined) }

// viewer returns the player whose tab list is shown.
func (s *sandbox) viewer() (uuid.UUID, bool) {
	if len(s.joined) == 0 {
		return uuid.Nil, false
	}
	return s.joined[0], true
}

// tick runs one refresh for the viewer and returns what was sent along
// with the layout result.
func (s *sandbox) tick(ctx context.Context) (layout.Grid, layout.Result, error) {
	id, ok := s.viewer()
	if !ok {
		size, cols := s.mgr.Dimensions()
		return *layout.NewGrid(size, cols), layout.Result{}, nil
	}
	if err := s.mgr.Refresh(ctx, id); err != nil {
		return layout.Grid{}, layout.Result{}, err
	}
	grid, _ := s.sink.Last(id)
	var res layout.Result
	if v, ok := s.mgr.View(id); ok {
		v.Inspect(func(_ *layout.Tree, r layout.Result) { res = r })
	}
	return grid, res, nil
}

// inspect calls fn with the viewer's tree.
func (s *sandbox) inspect(fn func(*layout.Tree, layout.Result)) bool {
	id, ok := s.viewer()
	if !ok {
		return false
	}
	v, ok := s.mgr.View(id)
	if !ok {
		return false
	}
	v.Inspect(fn)
	return true
}

// setColumns changes the column count of every view.
func (s *sandbox) setColumns(columns int) error {
	size, _ := s.mgr.Dimensions()
	return s.mgr.Resize(size, columns)
}

// reload rebuilds every view from cfg.
func (s *sandbox) reload(cfg *config.Config) error {
	root, err := tablist.Build(cfg.TabList, s.mgr.Registry())
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.mgr.Reload(root)
	return nil
}
