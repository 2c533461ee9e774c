package layout

import "fmt"

// Bounds is the slot range a node is willing to occupy during one tick.
type Bounds struct {
	Min          int  // slots the node needs at least
	Preferred    int  // slots the node would like to have
	Max          int  // slots the node can use at most
	BlockAligned bool // node must start at column 0
}

// Fixed returns bounds of exactly n slots.
func Fixed(n int) Bounds {
	return Bounds{Min: n, Preferred: n, Max: n}
}

// Normalize clamps b so that 0 ≤ Min ≤ Preferred ≤ Max.
func (b Bounds) Normalize() Bounds {
	if b.Min < 0 {
		b.Min = 0
	}
	if b.Max < b.Min {
		b.Max = b.Min
	}
	b.Preferred = min(max(b.Preferred, b.Min), b.Max)
	return b
}

// String returns b as "[min,preferred,max]" with an "a" suffix when aligned.
func (b Bounds) String() string {
	s := fmt.Sprintf("[%d,%d,%d]", b.Min, b.Preferred, b.Max)
	if b.BlockAligned {
		s += "a"
	}
	return s
}

// Placement is the position and size granted to a node.
type Placement struct {
	Row    int
	Column int
	Size   int
}

// Index returns the linear slot index of p in a grid with the given number
// of columns.
func (p Placement) Index(columns int) int {
	return p.Row*columns + p.Column
}

// At returns a placement starting at linear slot index idx.
func At(idx, columns, size int) Placement {
	return Placement{Row: idx / columns, Column: idx % columns, Size: size}
}

// String returns p as "(row,column)+size".
func (p Placement) String() string {
	return fmt.Sprintf("(%d,%d)+%d", p.Row, p.Column, p.Size)
}

// roundUp rounds n up to the next multiple of m.
func roundUp(n, m int) int {
	return (n + m - 1) / m * m
}
