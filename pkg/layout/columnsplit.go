package layout

// splitSection is the per-viewer state of a ColumnSplit.
type splitSection struct {
	cols    []Column // indexed by grid column, nil for holes
	columns int      // grid column count, refreshed by Precalculate
}

func newSplitSection(s *ColumnSplit, ctx *Context) *splitSection {
	cols := make([]Column, len(s.columns))
	for i, src := range s.columns {
		if src != nil {
			cols[i] = src.NewColumn(ctx)
		}
	}
	return &splitSection{cols: cols, columns: ctx.columns()}
}

// Precalculate prepares every column for the tick and picks up the current
// column count.
func (s *splitSection) Precalculate(ctx *Context) {
	for _, c := range s.cols {
		if c != nil {
			c.Precalculate(ctx)
		}
	}
	s.columns = ctx.columns()
}

// bounds reports the section's bounds. The section can start empty and
// always starts on a new row.
func (s *splitSection) bounds() Bounds {
	m := s.MaxSize()
	return Bounds{Min: 0, Preferred: m, Max: m, BlockAligned: true}
}

// MaxSize returns the rows needed by the fullest span times the column
// count. A span of adjacent columns with equal filters shares one list of
// players, so its maximum is divided among its columns.
func (s *splitSection) MaxSize() int {
	best := 0
	for i := 0; i < len(s.cols); i++ {
		if s.cols[i] == nil {
			continue
		}
		m := s.cols[i].MaxSize()
		span := 1
		for i+span < len(s.cols) && s.sameSpan(i+span-1, i+span) {
			span++
		}
		m = (m + span - 1) / span
		best = max(best, m)
		i += span - 1
	}
	return best * s.columns
}

// EffectiveSize rounds proposed down to a whole number of rows.
func (s *splitSection) EffectiveSize(proposed int) int {
	return proposed / s.columns * s.columns
}

// SlotAt returns the content of slot pos of a section of size slots.
func (s *splitSection) SlotAt(pos, size int) Slot {
	column := pos % s.columns
	sizePerCol := size / s.columns
	columnPos := pos / s.columns
	if column >= len(s.cols) || s.cols[column] == nil {
		return Slot{}
	}
	span := 1
	for column+span < len(s.cols) && s.sameSpan(column+span-1, column+span) {
		span++
	}
	pre := 0
	for column-pre-1 >= 0 && s.sameSpan(column-pre-1, column) {
		pre++
	}
	span += pre
	return s.cols[column].SlotAt(columnPos*span+pre, sizePerCol*span)
}

// sameSpan reports whether columns a and b are both assigned and share a
// filter.
func (s *splitSection) sameSpan(a, b int) bool {
	return s.cols[a] != nil && s.cols[b] != nil && s.cols[a].Filter() == s.cols[b].Filter()
}
