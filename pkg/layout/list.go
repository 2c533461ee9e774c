package layout

// aggregateList combines the bounds of a list's children. Before a block
// aligned child the running total is rounded up to a full row, so alignment
// carries over to enclosing lists.
func (t *Tree) aggregateList(children []Handle) Bounds {
	cols := t.ctx.columns()
	var b Bounds
	for _, c := range children {
		cb := t.state[c].bounds
		if cb.BlockAligned {
			b.Min = roundUp(b.Min, cols)
			b.Preferred = roundUp(b.Preferred, cols)
			b.Max = roundUp(b.Max, cols)
			b.BlockAligned = true
		}
		b.Min += cb.Min
		b.Preferred += cb.Preferred
		b.Max += cb.Max
	}
	return b
}

// solveList distributes the list's granted size among its children and
// places them. It returns false, leaving the children untouched, if the
// children do not fit at their minimum sizes.
//
// Children start at their minimum. Growth then runs in passes: each pass
// offers every child below its ceiling one more unit (a slot, or a full row
// for block aligned children) and keeps it if the total still fits. Passes
// repeat until nothing changes, first with the preferred size as ceiling,
// then with the maximum. Earlier children win when space runs out.
func (t *Tree) solveList(h Handle, res *Result) bool {
	n := &t.nodes[h]
	cols := t.ctx.columns()
	size := t.state[h].place.Size

	sizes := make([]int, len(n.children))
	aligned := make([]bool, len(n.children))
	for i, c := range n.children {
		sizes[i] = t.state[c].bounds.Min
		aligned[i] = t.state[c].bounds.BlockAligned
	}

	if needed := sizeNeeded(sizes, aligned, cols); needed > size {
		f := Infeasible{Node: h, Needed: needed, Size: size}
		res.Failures = append(res.Failures, f)
		t.logger.Warn("config error: layout does not fit", "node", h, "needed", needed, "size", size)
		return false
	}

	for _, ceiling := range []func(Bounds) int{
		func(b Bounds) int { return b.Preferred },
		func(b Bounds) int { return b.Max },
	} {
		for grown := true; grown; {
			grown = false
			for i, c := range n.children {
				old := sizes[i]
				if old >= ceiling(t.state[c].bounds) {
					continue
				}
				if aligned[i] {
					sizes[i] += cols
				} else {
					sizes[i]++
				}
				if sizeNeeded(sizes, aligned, cols) <= size {
					grown = true
				} else {
					sizes[i] = old
				}
			}
		}
	}

	base := t.state[h].place.Index(cols)
	pos := 0
	for i, c := range n.children {
		if aligned[i] {
			pos = roundUp(pos, cols)
		}
		t.place(c, At(base+pos, cols, sizes[i]))
		pos += sizes[i]
	}
	return true
}

// sizeNeeded returns the slots used by sizes laid out in order, including
// the padding in front of aligned entries.
func sizeNeeded(sizes []int, aligned []bool, cols int) int {
	total := 0
	for i, s := range sizes {
		if aligned[i] {
			total = roundUp(total, cols)
		}
		total += s
	}
	return total
}
