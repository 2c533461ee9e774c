package layout

// Kind identifies the variant of a tree node.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindList
	KindColumnSplit
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindList:
		return "list"
	case KindColumnSplit:
		return "columns"
	default:
		return "unknown"
	}
}

// Component is an immutable tab list template. The set of components is
// closed: *Leaf, *List and *ColumnSplit. Content is plugged in through
// Element and ColumnSource.
type Component interface {
	// HasConstantSize reports whether the component always occupies Size slots.
	HasConstantSize() bool

	// Size returns the constant size. Only meaningful if HasConstantSize.
	Size() int

	kind() Kind
}

// Element is the template side of a leaf.
type Element interface {
	HasConstantSize() bool
	Size() int

	// NewContent creates the per-viewer content.
	NewContent(ctx *Context) Content
}

// Content is the per-viewer side of a leaf.
type Content interface {
	// Bounds is called once per tick during Update1stStep.
	Bounds() Bounds

	// Render writes the content into dst. len(dst) is the granted size,
	// possibly clipped at the end of the grid.
	Render(dst []Slot)
}

// Activator is implemented by contents and columns that need to know when
// their viewer starts or stops viewing the tab list.
type Activator interface {
	Activate()
	Deactivate()
}

// Named is implemented by contents that have a display name for debugging.
type Named interface {
	Name() string
}

// Leaf is a component backed by an Element.
type Leaf struct {
	Element Element
}

// NewLeaf wraps e in a Leaf.
func NewLeaf(e Element) *Leaf {
	return &Leaf{Element: e}
}

func (l *Leaf) HasConstantSize() bool { return l == nil || l.Element == nil || l.Element.HasConstantSize() }

func (l *Leaf) Size() int {
	if l == nil || l.Element == nil {
		return 0
	}
	return l.Element.Size()
}

func (l *Leaf) kind() Kind { return KindLeaf }

// List packs its children, in order, into one run of slots.
type List struct {
	Children []Component
}

// NewList creates a list of the given children.
func NewList(children ...Component) *List {
	return &List{Children: children}
}

// HasConstantSize reports whether every child has a constant size.
func (l *List) HasConstantSize() bool {
	if l == nil {
		return true
	}
	for _, c := range l.Children {
		if !c.HasConstantSize() {
			return false
		}
	}
	return true
}

// Size returns the sum of the children's sizes.
func (l *List) Size() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, c := range l.Children {
		n += c.Size()
	}
	return n
}

func (l *List) kind() Kind { return KindList }

// ColumnSource is the template side of one column of a ColumnSplit.
type ColumnSource interface {
	// Filter identifies the players the column shows. Adjacent columns with
	// equal filters are merged into one span.
	Filter() string

	// NewColumn creates the per-viewer column.
	NewColumn(ctx *Context) Column
}

// Column is the per-viewer side of a ColumnSource.
type Column interface {
	Filter() string

	// MaxSize returns the number of slots the column could fill.
	MaxSize() int

	// SlotAt returns the content of slot pos when the column spans size slots.
	SlotAt(pos, size int) Slot

	// Precalculate is called once per tick before MaxSize.
	Precalculate(ctx *Context)
}

// ColumnSplit spreads player columns across the columns of the grid.
// Columns are sparse: an index without a column stays empty.
type ColumnSplit struct {
	columns []ColumnSource
}

// NewColumnSplit creates a ColumnSplit without columns.
func NewColumnSplit() *ColumnSplit {
	return &ColumnSplit{}
}

// AddColumn assigns src to column i, growing the column table as needed.
func (s *ColumnSplit) AddColumn(i int, src ColumnSource) *ColumnSplit {
	if i >= len(s.columns) {
		grown := make([]ColumnSource, i+1)
		copy(grown, s.columns)
		s.columns = grown
	}
	s.columns[i] = src
	return s
}

// Columns returns the column table. Holes are nil.
func (s *ColumnSplit) Columns() []ColumnSource { return s.columns }

func (s *ColumnSplit) HasConstantSize() bool { return false }
func (s *ColumnSplit) Size() int             { return 0 }
func (s *ColumnSplit) kind() Kind            { return KindColumnSplit }
