package tablist

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/config"
	"github.com/matzehuels/tablistplus/pkg/layout"
	"github.com/matzehuels/tablistplus/pkg/player"
)

// PlayerSource provides the players shown in the tab list. A
// *player.Registry is a PlayerSource; its Visible method already leaves out
// hidden players.
type PlayerSource interface {
	Visible() []player.Player
}

// Filter selects players by server. The empty filter and "*" match every
// player, otherwise the filter is a comma separated list of server names.
type Filter string

// Match reports whether p is on one of the filter's servers.
func (f Filter) Match(p player.Player) bool {
	s := strings.TrimSpace(string(f))
	if s == "" || s == "*" {
		return true
	}
	for _, server := range strings.Split(s, ",") {
		if strings.EqualFold(strings.TrimSpace(server), p.Server) {
			return true
		}
	}
	return false
}

// SortFunc orders players for one viewer.
type SortFunc func(viewer uuid.UUID) func(a, b player.Player) int

// SortBy returns the sort order named by a config sort option. Unknown
// names fall back to the default order: the viewer first, then by name.
func SortBy(name string) SortFunc {
	switch name {
	case config.SortName:
		return func(uuid.UUID) func(a, b player.Player) int { return player.ByName }
	case config.SortPing:
		return func(uuid.UUID) func(a, b player.Player) int {
			return func(a, b player.Player) int {
				if c := cmp.Compare(a.Ping, b.Ping); c != 0 {
					return c
				}
				return player.ByName(a, b)
			}
		}
	case config.SortJoined:
		return func(uuid.UUID) func(a, b player.Player) int {
			return func(a, b player.Player) int {
				if c := a.Joined.Compare(b.Joined); c != 0 {
					return c
				}
				return player.ByName(a, b)
			}
		}
	}
	return viewerFirst
}

func viewerFirst(viewer uuid.UUID) func(a, b player.Player) int {
	return func(a, b player.Player) int {
		switch {
		case a.ID == b.ID:
			return 0
		case a.ID == viewer:
			return -1
		case b.ID == viewer:
			return 1
		}
		return player.ByName(a, b)
	}
}

// selectPlayers returns the players of src matching f in viewer order.
func selectPlayers(src PlayerSource, f Filter, sort SortFunc, viewer uuid.UUID) []player.Player {
	var out []player.Player
	for _, p := range src.Visible() {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	if sort == nil {
		sort = viewerFirst
	}
	slices.SortFunc(out, sort(viewer))
	return out
}

func playerSlot(p player.Player) layout.Slot {
	return layout.Slot{Text: p.Name, Ping: p.Ping, Skin: p.ID.String()}
}

// Players lists the players matching Filter, one per slot.
//
// The list wants one slot per matching player, at least Min and at most Max
// (zero means unlimited). When it is granted fewer slots than players and
// Overflow is set, the last slot shows Overflow with "{count}" replaced by
// the number of players left out.
type Players struct {
	Source   PlayerSource
	Filter   Filter
	Min      int
	Max      int
	Overflow string
	Sort     SortFunc
	Align    bool
}

func (p *Players) HasConstantSize() bool { return false }
func (p *Players) Size() int             { return p.Min }

func (p *Players) NewContent(ctx *layout.Context) layout.Content {
	return &playersContent{Players: p, ctx: ctx}
}

type playersContent struct {
	*Players
	ctx     *layout.Context
	players []player.Player // selected by the last Bounds call
}

func (c *playersContent) Name() string {
	if c.Filter == "" {
		return "players"
	}
	return "players " + string(c.Filter)
}

func (c *playersContent) Bounds() layout.Bounds {
	c.players = selectPlayers(c.Source, c.Filter, c.Sort, layout.Get(c.ctx, KeyViewer))
	want := max(len(c.players), c.Min)
	if c.Max > 0 {
		want = min(want, c.Max)
	}
	return layout.Bounds{Min: c.Min, Preferred: want, Max: want, BlockAligned: c.Align}
}

func (c *playersContent) Render(dst []layout.Slot) {
	shown := len(c.players)
	overflow := shown > len(dst) && len(dst) > 0 && c.Overflow != ""
	if shown > len(dst) {
		shown = len(dst)
		if overflow {
			shown--
		}
	}
	clearSlots(dst)
	for i := 0; i < shown; i++ {
		dst[i] = playerSlot(c.players[i])
	}
	if overflow {
		rest := strconv.Itoa(len(c.players) - shown)
		dst[shown] = layout.Slot{Text: strings.ReplaceAll(c.Overflow, "{count}", rest)}
	}
}

// PlayerColumn is a column of a ColumnSplit listing the players matching
// its filter. Adjacent columns with equal filters share one list.
type PlayerColumn struct {
	Source     PlayerSource
	FilterExpr Filter
	Sort       SortFunc
}

// Filter implements layout.ColumnSource.
func (p *PlayerColumn) Filter() string { return string(p.FilterExpr) }

// NewColumn implements layout.ColumnSource.
func (p *PlayerColumn) NewColumn(ctx *layout.Context) layout.Column {
	return &playerColumn{PlayerColumn: p}
}

type playerColumn struct {
	*PlayerColumn
	players []player.Player
}

func (c *playerColumn) Precalculate(ctx *layout.Context) {
	c.players = selectPlayers(c.Source, c.FilterExpr, c.Sort, layout.Get(ctx, KeyViewer))
}

func (c *playerColumn) MaxSize() int { return len(c.players) }

func (c *playerColumn) SlotAt(pos, size int) layout.Slot {
	if pos < 0 || pos >= size || pos >= len(c.players) {
		return layout.Slot{}
	}
	return playerSlot(c.players[pos])
}
