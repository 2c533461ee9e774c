package tablist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/config"
	tperrors "github.com/matzehuels/tablistplus/pkg/errors"
	"github.com/matzehuels/tablistplus/pkg/layout"
	"github.com/matzehuels/tablistplus/pkg/observability"
	"github.com/matzehuels/tablistplus/pkg/player"
)

type staticSource []player.Player

func (s staticSource) Visible() []player.Player { return append([]player.Player(nil), s...) }

func pl(name, server string) player.Player {
	return player.Player{ID: uuid.New(), Name: name, Server: server}
}

func texts(slots []layout.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
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

func TestFilterMatch(t *testing.T) {
	lobby := pl("Alice", "lobby")
	tests := []struct {
		filter Filter
		want   bool
	}{
		{"", true},
		{"*", true},
		{"lobby", true},
		{"LOBBY", true},
		{"pvp, lobby", true},
		{"pvp", false},
		{"lob", false},
	}
	for _, tt := range tests {
		if got := tt.filter.Match(lobby); got != tt.want {
			t.Errorf("Filter(%q).Match(lobby) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestSortBy(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	alice := player.Player{ID: uuid.New(), Name: "alice", Ping: 80, Joined: base.Add(time.Minute)}
	bob := player.Player{ID: uuid.New(), Name: "Bob", Ping: 20, Joined: base.Add(2 * time.Minute)}
	carol := player.Player{ID: uuid.New(), Name: "carol", Ping: 50, Joined: base}
	src := staticSource{carol, bob, alice}

	tests := []struct {
		sort string
		want []string
	}{
		{config.SortDefault, []string{"carol", "alice", "Bob"}},
		{config.SortName, []string{"alice", "Bob", "carol"}},
		{config.SortPing, []string{"Bob", "carol", "alice"}},
		{config.SortJoined, []string{"carol", "alice", "Bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			var names []string
			for _, p := range selectPlayers(src, "*", SortBy(tt.sort), carol.ID) {
				names = append(names, p.Name)
			}
			if !equalStrings(names, tt.want) {
				t.Errorf("order = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestPlayersBounds(t *testing.T) {
	src := staticSource{pl("a_1", "lobby"), pl("a_2", "lobby"), pl("a_3", "lobby"), pl("b_1", "pvp")}
	tests := []struct {
		name string
		p    Players
		want layout.Bounds
	}{
		{"all", Players{Filter: "*"}, layout.Bounds{Min: 0, Preferred: 4, Max: 4}},
		{"filtered", Players{Filter: "lobby"}, layout.Bounds{Min: 0, Preferred: 3, Max: 3}},
		{"capped", Players{Filter: "*", Max: 2}, layout.Bounds{Min: 0, Preferred: 2, Max: 2}},
		{"reserved", Players{Filter: "pvp", Min: 3}, layout.Bounds{Min: 3, Preferred: 3, Max: 3}},
		{"aligned", Players{Filter: "pvp", Align: true}, layout.Bounds{Min: 0, Preferred: 1, Max: 1, BlockAligned: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.p.Source = src
			c := tt.p.NewContent(layout.NewContext())
			if got := c.Bounds(); got != tt.want {
				t.Errorf("Bounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlayersOverflow(t *testing.T) {
	src := staticSource{pl("p_1", "s"), pl("p_2", "s"), pl("p_3", "s"), pl("p_4", "s"), pl("p_5", "s")}
	p := &Players{Source: src, Sort: SortBy(config.SortName), Overflow: "... and {count} more"}
	c := p.NewContent(layout.NewContext())
	c.Bounds()

	dst := make([]layout.Slot, 3)
	c.Render(dst)
	want := []string{"p_1", "p_2", "... and 3 more"}
	if got := texts(dst); !equalStrings(got, want) {
		t.Errorf("Render() = %v, want %v", got, want)
	}

	p.Overflow = ""
	c.Render(dst)
	if got := texts(dst); !equalStrings(got, []string{"p_1", "p_2", "p_3"}) {
		t.Errorf("Render() without overflow = %v", got)
	}

	big := make([]layout.Slot, 7)
	c.Render(big)
	if got := texts(big); !equalStrings(got, []string{"p_1", "p_2", "p_3", "p_4", "p_5", "", ""}) {
		t.Errorf("Render() with spare slots = %v", got)
	}
	if big[0].Skin == "" {
		t.Error("player slot has no skin")
	}
}

func TestElements(t *testing.T) {
	ctx := layout.NewContext()
	layout.Set(ctx, layout.KeyTabSize, 60)

	if got := (Text{Text: "hi", Align: true}).NewContent(ctx).Bounds(); got != (layout.Bounds{Min: 1, Preferred: 1, Max: 1, BlockAligned: true}) {
		t.Errorf("Text.Bounds() = %v", got)
	}
	if got := (Spacer{Slots: 3}).NewContent(ctx).Bounds(); got != layout.Fixed(3) {
		t.Errorf("Spacer.Bounds() = %v", got)
	}
	if got := (Fill{Min: 1}).NewContent(ctx).Bounds(); got != (layout.Bounds{Min: 1, Preferred: 1, Max: 60}) {
		t.Errorf("Fill.Bounds() = %v", got)
	}
	if got := (Fill{Max: 5}).NewContent(ctx).Bounds(); got.Max != 5 {
		t.Errorf("Fill.Bounds().Max = %d, want 5", got.Max)
	}

	dst := []layout.Slot{{Text: "stale"}, {Text: "stale"}}
	Text{Text: "hi"}.Render(dst)
	if got := texts(dst); !equalStrings(got, []string{"hi", ""}) {
		t.Errorf("Text.Render() = %v", got)
	}
}

func TestBuild(t *testing.T) {
	def := config.TabListConfig{Components: []config.ComponentDef{
		{Type: config.TypeText, Text: "Header"},
		{Type: config.TypeSpacer, Size: 2},
		{Type: config.TypeList, Components: []config.ComponentDef{{Type: config.TypePlayers}}},
		{Type: config.TypeColumns, Columns: []config.ColumnDef{{Index: 0, Filter: "lobby"}, {Index: 2, Filter: "pvp"}}},
		{Type: config.TypeFill},
	}}
	root, err := Build(def, staticSource{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	tree := layout.NewTree(root, nil)
	kinds := []layout.Kind{layout.KindLeaf, layout.KindLeaf, layout.KindList, layout.KindColumnSplit, layout.KindLeaf}
	children := tree.Children(tree.Root())
	if len(children) != len(kinds) {
		t.Fatalf("len(children) = %d, want %d", len(children), len(kinds))
	}
	for i, c := range children {
		if tree.Kind(c) != kinds[i] {
			t.Errorf("child %d kind = %v, want %v", i, tree.Kind(c), kinds[i])
		}
	}
	split := root.(*layout.List).Children[3].(*layout.ColumnSplit)
	if cols := split.Columns(); len(cols) != 3 || cols[1] != nil {
		t.Errorf("Columns() = %v, want hole at 1", cols)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		def  config.ComponentDef
	}{
		{"unknown type", config.ComponentDef{Type: "banner"}},
		{"nested unknown", config.ComponentDef{Type: config.TypeList, Components: []config.ComponentDef{{Type: ""}}}},
		{"empty columns", config.ComponentDef{Type: config.TypeColumns}},
		{"negative column", config.ComponentDef{Type: config.TypeColumns, Columns: []config.ColumnDef{{Index: -1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(config.TabListConfig{Components: []config.ComponentDef{tt.def}}, staticSource{})
			if !tperrors.Is(err, tperrors.ErrCodeInvalidComponent) {
				t.Errorf("Build() error = %v, want %s", err, tperrors.ErrCodeInvalidComponent)
			}
		})
	}
}

func TestBuildDefault(t *testing.T) {
	cfg := config.Default()
	root, err := Build(cfg.TabList, staticSource{pl("Notch", "lobby")})
	if err != nil {
		t.Fatalf("Build(default) error: %v", err)
	}
	tree := layout.NewTree(root, nil)
	if res := tree.Update(layout.Placement{Size: cfg.TabList.Size}); !res.OK() {
		t.Errorf("default layout infeasible: %v", res.Err())
	}
}

type recordingNotifier struct {
	mu        sync.Mutex
	immediate []uuid.UUID
	later     []uuid.UUID
}

func (n *recordingNotifier) SendImmediate(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.immediate = append(n.immediate, id)
}

func (n *recordingNotifier) SendLater(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.later = append(n.later, id)
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.immediate, n.later = nil, nil
}

func newTestManager(t *testing.T, def config.TabListConfig, size, columns int) (*Manager, *MemorySink, *recordingNotifier) {
	t.Helper()
	reg := player.NewRegistry()
	root, err := Build(def, reg)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	sink := NewMemorySink()
	notifier := &recordingNotifier{}
	m := NewManager(reg, root, WithSink(sink), WithNotifier(notifier), WithDimensions(size, columns))
	return m, sink, notifier
}

func join(t *testing.T, m *Manager, name, server string) player.Player {
	t.Helper()
	p, err := m.Join(player.Player{Name: name, Server: server})
	if err != nil {
		t.Fatalf("Join(%s) error: %v", name, err)
	}
	return p
}

var headerAndPlayers = config.TabListConfig{Components: []config.ComponentDef{
	{Type: config.TypeText, Text: "Header", Align: true},
	{Type: config.TypePlayers, Filter: "*", Align: true},
}}

func TestManagerRefresh(t *testing.T) {
	ctx := context.Background()
	m, sink, _ := newTestManager(t, headerAndPlayers, 8, 2)
	join(t, m, "Alice", "lobby")
	bob := join(t, m, "Bob", "lobby")
	join(t, m, "Carol", "pvp")

	if err := m.Refresh(ctx, bob.ID); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	grid, ok := sink.Last(bob.ID)
	if !ok {
		t.Fatal("nothing sent to Bob")
	}
	want := []string{"Header", "", "Bob", "Alice", "Carol", "", "", ""}
	if got := texts(grid.Slots); !equalStrings(got, want) {
		t.Errorf("grid = %v, want %v", got, want)
	}
	if snap, ok := m.Snapshot(bob.ID); !ok || !equalStrings(texts(snap.Slots), want) {
		t.Errorf("Snapshot() = %v, want %v", texts(snap.Slots), want)
	}

	if err := m.Refresh(ctx, uuid.New()); !tperrors.Is(err, tperrors.ErrCodePlayerNotFound) {
		t.Errorf("Refresh(unknown) error = %v, want %s", err, tperrors.ErrCodePlayerNotFound)
	}
}

func TestManagerHide(t *testing.T) {
	ctx := context.Background()
	m, sink, _ := newTestManager(t, headerAndPlayers, 8, 2)
	alice := join(t, m, "Alice", "lobby")
	bob := join(t, m, "Bob", "lobby")

	if err := m.Hide(ctx, alice.ID); err != nil {
		t.Fatalf("Hide() error: %v", err)
	}
	if err := m.Refresh(ctx, bob.ID); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	grid, _ := sink.Last(bob.ID)
	for _, s := range grid.Slots {
		if s.Text == "Alice" {
			t.Error("hidden player shown in tab list")
		}
	}

	if err := m.Unhide(ctx, alice.ID); err != nil {
		t.Fatalf("Unhide() error: %v", err)
	}
	m.Refresh(ctx, bob.ID)
	grid, _ = sink.Last(bob.ID)
	if got := grid.Slots[3].Text; got != "Alice" {
		t.Errorf("slot 3 = %q after Unhide, want Alice", got)
	}
}

func TestManagerNotify(t *testing.T) {
	m, _, n := newTestManager(t, headerAndPlayers, 8, 2)
	alice := join(t, m, "Alice", "lobby")
	n.reset()

	bob := join(t, m, "Bob", "lobby")
	if len(n.immediate) != 1 || n.immediate[0] != bob.ID {
		t.Errorf("immediate = %v, want [Bob]", n.immediate)
	}
	if len(n.later) != 1 || n.later[0] != alice.ID {
		t.Errorf("later = %v, want [Alice]", n.later)
	}

	n.reset()
	if err := m.SwitchServer(alice.ID, "pvp"); err != nil {
		t.Fatalf("SwitchServer() error: %v", err)
	}
	if len(n.immediate) != 1 || n.immediate[0] != alice.ID {
		t.Errorf("immediate after switch = %v, want [Alice]", n.immediate)
	}
	if err := m.SwitchServer(alice.ID, "a,b"); !tperrors.Is(err, tperrors.ErrCodeInvalidInput) {
		t.Errorf("SwitchServer(bad name) error = %v, want %s", err, tperrors.ErrCodeInvalidInput)
	}

	n.reset()
	if err := m.Leave(bob.ID); err != nil {
		t.Fatalf("Leave() error: %v", err)
	}
	if len(n.immediate) != 0 || len(n.later) != 1 {
		t.Errorf("after Leave immediate = %v later = %v, want none and [Alice]", n.immediate, n.later)
	}
	if _, ok := m.View(bob.ID); ok {
		t.Error("view survived Leave()")
	}
	if err := m.Leave(bob.ID); !tperrors.Is(err, tperrors.ErrCodePlayerNotFound) {
		t.Errorf("second Leave() error = %v, want %s", err, tperrors.ErrCodePlayerNotFound)
	}
}

func TestManagerReload(t *testing.T) {
	ctx := context.Background()
	m, sink, n := newTestManager(t, headerAndPlayers, 8, 2)
	alice := join(t, m, "Alice", "lobby")
	n.reset()

	root, err := Build(config.TabListConfig{Components: []config.ComponentDef{
		{Type: config.TypeText, Text: "Reloaded"},
	}}, m.Registry())
	if err != nil {
		t.Fatal(err)
	}
	m.Reload(root)
	if len(n.immediate) != 1 {
		t.Errorf("immediate after Reload = %v, want [Alice]", n.immediate)
	}
	m.Refresh(ctx, alice.ID)
	grid, _ := sink.Last(alice.ID)
	if grid.Slots[0].Text != "Reloaded" {
		t.Errorf("slot 0 = %q, want Reloaded", grid.Slots[0].Text)
	}

	// Views created after the reload use the new template too.
	bob := join(t, m, "Bob", "lobby")
	m.Refresh(ctx, bob.ID)
	grid, _ = sink.Last(bob.ID)
	if grid.Slots[0].Text != "Reloaded" {
		t.Errorf("new view slot 0 = %q, want Reloaded", grid.Slots[0].Text)
	}
}

func TestManagerResize(t *testing.T) {
	ctx := context.Background()
	m, sink, _ := newTestManager(t, headerAndPlayers, 8, 2)
	alice := join(t, m, "Alice", "lobby")

	if err := m.Resize(20, 4); err != nil {
		t.Fatalf("Resize() error: %v", err)
	}
	m.Refresh(ctx, alice.ID)
	grid, _ := sink.Last(alice.ID)
	if grid.Columns != 4 || len(grid.Slots) != 20 {
		t.Errorf("grid = %d slots in %d columns, want 20 in 4", len(grid.Slots), grid.Columns)
	}
	if got := grid.At(1, 0).Text; got != "Alice" {
		t.Errorf("At(1, 0) = %q, want Alice", got)
	}
	if err := m.Resize(8, 0); !tperrors.Is(err, tperrors.ErrCodeInvalidColumns) {
		t.Errorf("Resize(8, 0) error = %v, want %s", err, tperrors.ErrCodeInvalidColumns)
	}
}

func TestManagerConcurrentRefresh(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, headerAndPlayers, 8, 2)
	alice := join(t, m, "Alice", "lobby")
	bob := join(t, m, "Bob", "pvp")
	root, err := Build(headerAndPlayers, m.Registry())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := alice.ID
			if w%2 == 1 {
				id = bob.ID
			}
			for i := range 50 {
				switch i % 4 {
				case 0:
					if err := m.Refresh(ctx, id); err != nil {
						t.Errorf("Refresh() error: %v", err)
					}
				case 1:
					m.Reload(root)
				case 2:
					size := 8
					if (w+i)%8 == 2 {
						size = 16
					}
					if err := m.Resize(size, 2); err != nil {
						t.Errorf("Resize(%d, 2) error: %v", size, err)
					}
				case 3:
					if _, ok := m.Snapshot(id); !ok {
						t.Errorf("Snapshot(%s) missing", id)
					}
				}
			}
		}()
	}
	wg.Wait()

	if err := m.Refresh(ctx, alice.ID); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	grid, ok := m.Snapshot(alice.ID)
	if !ok {
		t.Fatal("Snapshot() missing after refresh")
	}
	size, cols := m.Dimensions()
	if grid.Columns != cols || len(grid.Slots) != size {
		t.Errorf("grid = %d slots in %d columns, want %d in %d", len(grid.Slots), grid.Columns, size, cols)
	}
	if got := grid.Slots[0].Text; got != "Header" {
		t.Errorf("slot 0 = %q, want Header", got)
	}
}

func TestManagerJoinLeaveConcurrent(t *testing.T) {
	m, _, _ := newTestManager(t, headerAndPlayers, 8, 2)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("racer_%d", w)
			for range 25 {
				p, err := m.Join(player.Player{Name: name, Server: "lobby"})
				if err != nil {
					t.Errorf("Join(%s) error: %v", name, err)
					return
				}
				if err := m.Leave(p.ID); err != nil {
					t.Errorf("Leave(%s) error: %v", name, err)
					return
				}
			}
			if _, err := m.Join(player.Player{Name: name, Server: "lobby"}); err != nil {
				t.Errorf("Join(%s) error: %v", name, err)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				for _, id := range m.IDs() {
					m.Snapshot(id)
				}
			}
		}()
	}
	wg.Wait()

	views := m.IDs()
	if len(views) != 4 || m.Registry().Len() != 4 {
		t.Fatalf("views = %d, players = %d, want 4 and 4", len(views), m.Registry().Len())
	}
	for _, id := range m.Registry().IDs() {
		if _, ok := m.View(id); !ok {
			t.Errorf("player %s has no view", id)
		}
	}
}

type infeasibleHooks struct {
	observability.NoopRefreshHooks
	mu     sync.Mutex
	needed []int
}

func (h *infeasibleHooks) OnLayoutInfeasible(_ context.Context, _ string, needed, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.needed = append(h.needed, needed)
}

func TestManagerRefreshInfeasible(t *testing.T) {
	hooks := &infeasibleHooks{}
	observability.SetRefreshHooks(hooks)
	defer observability.Reset()

	def := config.TabListConfig{Components: []config.ComponentDef{
		{Type: config.TypeText, Text: "a"},
		{Type: config.TypeText, Text: "b"},
		{Type: config.TypeText, Text: "c"},
	}}
	m, sink, _ := newTestManager(t, def, 2, 1)
	p := join(t, m, "Alice", "lobby")

	if err := m.Refresh(context.Background(), p.ID); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if len(hooks.needed) != 1 || hooks.needed[0] != 3 {
		t.Errorf("infeasible events = %v, want [3]", hooks.needed)
	}
	if sink.Sends() != 1 {
		t.Errorf("Sends() = %d, want 1", sink.Sends())
	}
	v, _ := m.View(p.ID)
	v.Inspect(func(_ *layout.Tree, res layout.Result) {
		if res.OK() {
			t.Error("Inspect() result OK, want infeasible")
		}
	})
}

func TestManagerSinkError(t *testing.T) {
	reg := player.NewRegistry()
	root, _ := Build(headerAndPlayers, reg)
	failing := SinkFunc(func(context.Context, uuid.UUID, layout.Grid) error { return errors.New("connection reset") })
	m := NewManager(reg, root, WithSink(failing))
	p, _ := m.Join(player.Player{Name: "Alice", Server: "lobby"})

	if err := m.Refresh(context.Background(), p.ID); !tperrors.Is(err, tperrors.ErrCodeNetwork) {
		t.Errorf("Refresh() error = %v, want %s", err, tperrors.ErrCodeNetwork)
	}
}
