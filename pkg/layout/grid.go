package layout

// Slot is the content of one cell of the tab list.
type Slot struct {
	Text string `json:"text,omitempty"`
	Ping int    `json:"ping,omitempty"`
	Skin string `json:"skin,omitempty"`
}

// IsEmpty reports whether s has no content.
func (s Slot) IsEmpty() bool { return s == Slot{} }

// Grid is a rendered tab list. Slots are stored row by row.
type Grid struct {
	Columns int    `json:"columns"`
	Slots   []Slot `json:"slots"`
}

// NewGrid creates an empty grid of size slots. A size that is not a
// multiple of columns is rounded up to complete the last row.
func NewGrid(size, columns int) *Grid {
	if columns < 1 {
		columns = 1
	}
	return &Grid{Columns: columns, Slots: make([]Slot, roundUp(max(size, 0), columns))}
}

// Rows returns the number of rows. A zero Grid has none.
func (g *Grid) Rows() int {
	if g.Columns < 1 {
		return 0
	}
	return len(g.Slots) / g.Columns
}

// At returns the slot at (row, col). Out of range positions are empty.
func (g *Grid) At(row, col int) Slot {
	if row < 0 || col < 0 || col >= g.Columns {
		return Slot{}
	}
	if i := row*g.Columns + col; i < len(g.Slots) {
		return g.Slots[i]
	}
	return Slot{}
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() Grid {
	return Grid{Columns: g.Columns, Slots: append([]Slot(nil), g.Slots...)}
}

// span returns the slots covered by p, clipped to the grid.
func (g *Grid) span(p Placement) []Slot {
	start := p.Index(g.Columns)
	if start < 0 || start >= len(g.Slots) || p.Size <= 0 {
		return nil
	}
	end := min(start+p.Size, len(g.Slots))
	return g.Slots[start:end]
}
