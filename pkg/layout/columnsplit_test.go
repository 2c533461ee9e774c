package layout

import (
	"fmt"
	"testing"
)

// stubColumn is a column source and column in one. SlotAt echoes its
// arguments so tests can check the span mapping.
type stubColumn struct {
	filter       string
	max          int
	precalcCount int
}

func (c *stubColumn) Filter() string            { return c.filter }
func (c *stubColumn) NewColumn(*Context) Column { return c }
func (c *stubColumn) MaxSize() int              { return c.max }
func (c *stubColumn) Precalculate(*Context)     { c.precalcCount++ }
func (c *stubColumn) SlotAt(pos, size int) Slot {
	return Slot{Text: fmt.Sprintf("%s:%d/%d", c.filter, pos, size)}
}

func col(filter string, max int) *stubColumn {
	return &stubColumn{filter: filter, max: max}
}

func newSplit(columns int, cols ...*stubColumn) *splitSection {
	s := NewColumnSplit()
	for i, c := range cols {
		if c != nil {
			s.AddColumn(i, c)
		}
	}
	ctx := NewContext()
	Set(ctx, KeyColumns, columns)
	return newSplitSection(s, ctx)
}

func TestColumnSplitMaxSize(t *testing.T) {
	tests := []struct {
		name    string
		columns int
		cols    []*stubColumn
		want    int
	}{
		{
			name:    "no columns",
			columns: 4,
			want:    0,
		},
		{
			name:    "all holes",
			columns: 4,
			cols:    []*stubColumn{nil, nil, nil},
			want:    0,
		},
		{
			name:    "merged pair halves budget",
			columns: 4,
			cols:    []*stubColumn{col("lobby", 10), col("lobby", 10)},
			want:    20,
		},
		{
			name:    "ceiling division",
			columns: 3,
			cols:    []*stubColumn{col("lobby", 7), col("lobby", 7), col("lobby", 7)},
			want:    9,
		},
		{
			name:    "fullest span wins",
			columns: 4,
			cols:    []*stubColumn{col("lobby", 10), col("lobby", 10), col("survival", 7), nil},
			want:    28,
		},
		{
			name:    "hole splits equal filters",
			columns: 3,
			cols:    []*stubColumn{col("lobby", 6), nil, col("lobby", 6)},
			want:    18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSplit(tt.columns, tt.cols...)
			if got := s.MaxSize(); got != tt.want {
				t.Errorf("MaxSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestColumnSplitEffectiveSize(t *testing.T) {
	s := newSplit(4, col("lobby", 1))
	tests := []struct{ proposed, want int }{
		{0, 0},
		{3, 0},
		{4, 4},
		{23, 20},
		{80, 80},
	}
	for _, tt := range tests {
		if got := s.EffectiveSize(tt.proposed); got != tt.want {
			t.Errorf("EffectiveSize(%d) = %d, want %d", tt.proposed, got, tt.want)
		}
	}
}

func TestColumnSplitSlotAt(t *testing.T) {
	s := newSplit(3, col("lobby", 6), col("lobby", 6), col("pvp", 3))
	tests := []struct {
		pos  int
		want string
	}{
		{0, "lobby:0/6"},
		{1, "lobby:1/6"},
		{2, "pvp:0/3"},
		{3, "lobby:2/6"},
		{4, "lobby:3/6"},
		{5, "pvp:1/3"},
		{8, "pvp:2/3"},
	}
	for _, tt := range tests {
		if got := s.SlotAt(tt.pos, 9).Text; got != tt.want {
			t.Errorf("SlotAt(%d, 9) = %q, want %q", tt.pos, got, tt.want)
		}
	}
}

func TestColumnSplitSlotAtHoles(t *testing.T) {
	s := newSplit(4, col("lobby", 4), nil, col("pvp", 4))
	if got := s.SlotAt(1, 8); !got.IsEmpty() {
		t.Errorf("SlotAt(hole) = %+v, want empty", got)
	}
	if got := s.SlotAt(3, 8); !got.IsEmpty() {
		t.Errorf("SlotAt(beyond columns) = %+v, want empty", got)
	}
	if got := s.SlotAt(6, 8).Text; got != "pvp:1/2" {
		t.Errorf("SlotAt(6, 8) = %q, want %q", got, "pvp:1/2")
	}
}

func TestColumnSplitPrecalculate(t *testing.T) {
	a := col("lobby", 8)
	split := NewColumnSplit().AddColumn(0, a).AddColumn(1, col("lobby", 8))
	tree := newTestTree(NewList(split), 2)

	tree.Update1stStep()
	if got := tree.Bounds(tree.Root()); got != (Bounds{Min: 0, Preferred: 8, Max: 8, BlockAligned: true}) {
		t.Errorf("Bounds() = %v, want [0,8,8]a", got)
	}
	if a.precalcCount != 1 {
		t.Errorf("Precalculate calls = %d, want 1", a.precalcCount)
	}

	// A client with a wider tab list changes the column count between ticks.
	Set(tree.Context(), KeyColumns, 4)
	tree.Update1stStep()
	if got := tree.Bounds(tree.Root()).Max; got != 16 {
		t.Errorf("Max after column change = %d, want 16", got)
	}
}

func TestColumnSplitInList(t *testing.T) {
	root := NewList(
		leaf("title", 1, 1, 1),
		NewColumnSplit().AddColumn(0, col("lobby", 10)),
	)
	tree := newTestTree(root, 4)
	if res := tree.Update(Placement{Size: 20}); !res.OK() {
		t.Fatalf("Update() failed: %v", res.Err())
	}

	split := tree.Children(tree.Root())[1]
	p, _ := tree.Placement(split)
	if want := (Placement{Row: 1, Column: 0, Size: 16}); p != want {
		t.Errorf("Placement() = %v, want %v", p, want)
	}

	grid := NewGrid(20, 4)
	tree.Render(grid)
	if got := grid.At(0, 0).Text; got != "title0" {
		t.Errorf("At(0, 0) = %q, want %q", got, "title0")
	}
	if got := grid.At(1, 0).Text; got != "lobby:0/4" {
		t.Errorf("At(1, 0) = %q, want %q", got, "lobby:0/4")
	}
	if got := grid.At(2, 0).Text; got != "lobby:1/4" {
		t.Errorf("At(2, 0) = %q, want %q", got, "lobby:1/4")
	}
	if got := grid.At(1, 1); !got.IsEmpty() {
		t.Errorf("At(1, 1) = %+v, want empty", got)
	}
}
