package layout

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// Handle addresses a node of a Tree. Handles are stable for the lifetime of
// the tree.
type Handle int

// NoHandle is the parent of the root.
const NoHandle Handle = -1

// node is the static part of a tree node, fixed when the tree is built.
type node struct {
	kind     Kind
	name     string
	parent   Handle
	children []Handle
	content  Content       // KindLeaf
	split    *splitSection // KindColumnSplit
}

// state is the per-tick scratch state of a node.
type state struct {
	bounds Bounds
	place  Placement
	placed bool
}

// Tree is the per-viewer instance of a component template.
type Tree struct {
	ctx    *Context
	logger *log.Logger
	nodes  []node
	state  []state
	root   Handle
	cols   int
	active bool
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for layout warnings.
func WithLogger(l *log.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTree instantiates root for one viewer. A nil root yields an empty list.
func NewTree(root Component, ctx *Context, opts ...Option) *Tree {
	if ctx == nil {
		ctx = NewContext()
	}
	t := &Tree{
		ctx:    ctx,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.add(root, NoHandle)
	t.state = make([]state, len(t.nodes))
	t.cols = ctx.columns()
	return t
}

func (t *Tree) add(c Component, parent Handle) Handle {
	h := Handle(len(t.nodes))
	switch c := c.(type) {
	case *Leaf:
		if c == nil || c.Element == nil {
			return t.add(nil, parent)
		}
		content := c.Element.NewContent(t.ctx)
		name := KindLeaf.String()
		if n, ok := content.(Named); ok {
			name = n.Name()
		}
		t.nodes = append(t.nodes, node{kind: KindLeaf, name: name, parent: parent, content: content})
	case *List:
		if c == nil {
			return t.add(nil, parent)
		}
		t.nodes = append(t.nodes, node{kind: KindList, name: KindList.String(), parent: parent})
		children := make([]Handle, 0, len(c.Children))
		for _, child := range c.Children {
			children = append(children, t.add(child, h))
		}
		t.nodes[h].children = children
	case *ColumnSplit:
		if c == nil {
			return t.add(nil, parent)
		}
		t.nodes = append(t.nodes, node{
			kind:   KindColumnSplit,
			name:   KindColumnSplit.String(),
			parent: parent,
			split:  newSplitSection(c, t.ctx),
		})
	default:
		t.nodes = append(t.nodes, node{kind: KindList, name: KindList.String(), parent: parent})
	}
	return h
}

// Context returns the tree's context.
func (t *Tree) Context() *Context { return t.ctx }

// Root returns the root handle.
func (t *Tree) Root() Handle { return t.root }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Kind returns the kind of h.
func (t *Tree) Kind(h Handle) Kind { return t.nodes[h].kind }

// Name returns the display name of h.
func (t *Tree) Name(h Handle) string { return t.nodes[h].name }

// Parent returns the parent of h, or NoHandle for the root.
func (t *Tree) Parent(h Handle) Handle { return t.nodes[h].parent }

// Children returns the children of h in list order.
func (t *Tree) Children(h Handle) []Handle { return slices.Clone(t.nodes[h].children) }

// Bounds returns the bounds computed for h by the last Update1stStep.
func (t *Tree) Bounds(h Handle) Bounds { return t.state[h].bounds }

// Placement returns the placement of h. ok is false if h was never placed.
// After an aborted tick the placement may be stale, but never from a
// different column count.
func (t *Tree) Placement(h Handle) (p Placement, ok bool) {
	s := t.state[h]
	return s.place, s.placed
}

// Active reports whether the tree is activated.
func (t *Tree) Active() bool { return t.active }

// Activate notifies all contents that the viewer started viewing.
// Calling Activate on an active tree does nothing.
func (t *Tree) Activate() {
	if t.active {
		return
	}
	t.active = true
	t.each(func(a Activator) { a.Activate() })
}

// Deactivate notifies all contents that the viewer stopped viewing.
// Calling Deactivate on an inactive tree does nothing.
func (t *Tree) Deactivate() {
	if !t.active {
		return
	}
	t.active = false
	t.each(func(a Activator) { a.Deactivate() })
}

func (t *Tree) each(fn func(Activator)) {
	for i := range t.nodes {
		n := &t.nodes[i]
		switch n.kind {
		case KindLeaf:
			if a, ok := n.content.(Activator); ok {
				fn(a)
			}
		case KindColumnSplit:
			for _, c := range n.split.cols {
				if a, ok := c.(Activator); ok {
					fn(a)
				}
			}
		}
	}
}

// Update runs Update1stStep followed by Update2ndStep.
func (t *Tree) Update(root Placement) Result {
	t.Update1stStep()
	return t.Update2ndStep(root)
}

// Update1stStep recomputes the bounds of every node, children first.
// Placements from an earlier column count are dropped so that an aborted
// tick never renders them against the new grid.
func (t *Tree) Update1stStep() {
	if cols := t.ctx.columns(); cols != t.cols {
		for i := range t.state {
			t.state[i].placed = false
		}
		t.cols = cols
	}
	t.aggregate(t.root)
}

func (t *Tree) aggregate(h Handle) {
	n := &t.nodes[h]
	switch n.kind {
	case KindLeaf:
		t.state[h].bounds = n.content.Bounds().Normalize()
	case KindList:
		for _, c := range n.children {
			t.aggregate(c)
		}
		t.state[h].bounds = t.aggregateList(n.children)
	case KindColumnSplit:
		n.split.Precalculate(t.ctx)
		t.state[h].bounds = n.split.bounds()
	}
}

// Update2ndStep places the root at root and lays out the tree top-down.
// It must follow Update1stStep of the same tick.
func (t *Tree) Update2ndStep(root Placement) Result {
	var res Result
	t.place(t.root, root)
	t.solve(t.root, &res)
	return res
}

// place commits p to h. Placements are normalized so that Column is always
// below the column count.
func (t *Tree) place(h Handle, p Placement) {
	cols := t.ctx.columns()
	if n := &t.nodes[h]; n.kind == KindColumnSplit {
		p.Size = n.split.EffectiveSize(p.Size)
	}
	p = At(p.Index(cols), cols, p.Size)
	t.state[h].place = p
	t.state[h].placed = true
}

func (t *Tree) solve(h Handle, res *Result) {
	if t.nodes[h].kind != KindList {
		return
	}
	if !t.solveList(h, res) {
		return
	}
	for _, c := range t.nodes[h].children {
		t.solve(c, res)
	}
}

// Render writes every placed leaf and column split into g.
func (t *Tree) Render(g *Grid) {
	for i := range t.nodes {
		s := t.state[i]
		if !s.placed {
			continue
		}
		n := &t.nodes[i]
		switch n.kind {
		case KindLeaf:
			if dst := g.span(s.place); len(dst) > 0 {
				n.content.Render(dst)
			}
		case KindColumnSplit:
			dst := g.span(s.place)
			for pos := range dst {
				dst[pos] = n.split.SlotAt(pos, s.place.Size)
			}
		}
	}
}
