package tablist

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/layout"
)

// View is one player's tab list: the component tree built for the player,
// its context and the last rendered grid. All access goes through the
// view's mutex, so a tick, a lifecycle change and a snapshot read never
// overlap.
type View struct {
	mu      sync.Mutex
	id      uuid.UUID
	ctx     *layout.Context
	tree    *layout.Tree
	grid    layout.Grid
	result  layout.Result
	updated time.Time
	logger  *log.Logger
}

func newView(id uuid.UUID, root layout.Component, size, columns int, logger *log.Logger) *View {
	ctx := layout.NewContext()
	layout.Set(ctx, KeyViewer, id)
	layout.Set(ctx, layout.KeyTabSize, size)
	layout.Set(ctx, layout.KeyColumns, columns)
	v := &View{id: id, ctx: ctx, logger: logger.With("viewer", id)}
	v.tree = layout.NewTree(root, ctx, layout.WithLogger(v.logger))
	v.tree.Activate()
	return v
}

// ID returns the viewer's ID.
func (v *View) ID() uuid.UUID { return v.id }

// Update runs one tick and renders the result. On an infeasible layout the
// affected lists keep their previous placements and the grid is rendered
// anyway.
func (v *View) Update() (layout.Grid, layout.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	size := layout.Get(v.ctx, layout.KeyTabSize)
	v.result = v.tree.Update(layout.Placement{Size: size})
	g := layout.NewGrid(size, layout.Get(v.ctx, layout.KeyColumns))
	v.tree.Render(g)
	v.grid = g.Clone()
	v.updated = time.Now()
	return *g, v.result
}

// Grid returns a copy of the last rendered grid and when it was rendered.
// The time is zero before the first Update.
func (v *View) Grid() (layout.Grid, time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.grid.Clone(), v.updated
}

// Inspect calls fn with the tree and the result of the last tick while
// holding the view's lock. fn must not keep the tree.
func (v *View) Inspect(fn func(t *layout.Tree, res layout.Result)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(v.tree, v.result)
}

// Rebuild replaces the tree with a new instance of root.
func (v *View) Rebuild(root layout.Component) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tree.Deactivate()
	v.tree = layout.NewTree(root, v.ctx, layout.WithLogger(v.logger))
	v.tree.Activate()
	v.result = layout.Result{}
}

// Resize changes the viewer's tab list dimensions. It takes effect with the
// next Update.
func (v *View) Resize(size, columns int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	layout.Set(v.ctx, layout.KeyTabSize, size)
	layout.Set(v.ctx, layout.KeyColumns, columns)
}

// close deactivates the tree. The view must not be used afterwards.
func (v *View) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tree.Deactivate()
}
