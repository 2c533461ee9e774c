package tablist

import (
	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/layout"
)

// KeyViewer holds the ID of the player a tree is built for.
var KeyViewer = layout.NewKey("viewer", uuid.Nil)

// Text shows one line of text.
type Text struct {
	Text  string
	Align bool
}

func (t Text) HasConstantSize() bool                     { return true }
func (t Text) Size() int                                 { return 1 }
func (t Text) NewContent(*layout.Context) layout.Content { return t }
func (t Text) Name() string                              { return "text" }

func (t Text) Bounds() layout.Bounds {
	b := layout.Fixed(1)
	b.BlockAligned = t.Align
	return b
}

func (t Text) Render(dst []layout.Slot) {
	dst[0] = layout.Slot{Text: t.Text}
	clearSlots(dst[1:])
}

// Spacer keeps a fixed number of slots empty.
type Spacer struct {
	Slots int
	Align bool
}

func (s Spacer) HasConstantSize() bool                     { return true }
func (s Spacer) Size() int                                 { return s.Slots }
func (s Spacer) NewContent(*layout.Context) layout.Content { return s }
func (s Spacer) Name() string                              { return "spacer" }

func (s Spacer) Bounds() layout.Bounds {
	b := layout.Fixed(s.Slots)
	b.BlockAligned = s.Align
	return b
}

func (s Spacer) Render(dst []layout.Slot) { clearSlots(dst) }

// Fill is empty space that takes whatever is left once every other
// component got its preferred size. A zero Max means the whole tab list.
type Fill struct {
	Min   int
	Max   int
	Align bool
}

func (f Fill) HasConstantSize() bool { return false }
func (f Fill) Size() int             { return f.Min }

func (f Fill) NewContent(ctx *layout.Context) layout.Content {
	return &fillContent{Fill: f, ctx: ctx}
}

type fillContent struct {
	Fill
	ctx *layout.Context
}

func (f *fillContent) Name() string { return "fill" }

func (f *fillContent) Bounds() layout.Bounds {
	hi := f.Max
	if hi <= 0 {
		hi = layout.Get(f.ctx, layout.KeyTabSize)
	}
	return layout.Bounds{Min: f.Min, Preferred: f.Min, Max: hi, BlockAligned: f.Align}
}

func (f *fillContent) Render(dst []layout.Slot) { clearSlots(dst) }

func clearSlots(dst []layout.Slot) {
	for i := range dst {
		dst[i] = layout.Slot{}
	}
}
