// Package layout implements the tab list layout engine.
//
// A tab list is a fixed grid of slots (80 slots in 4 columns for modern
// clients). A configured tab list is a tree of components: leaves produce
// content, Lists pack their children into a shared run of slots, and
// ColumnSplits spread player columns across the grid.
//
// # Templates and Trees
//
// Components are immutable templates ([Leaf], [List], [ColumnSplit]). A
// [Tree] instantiates a template for one viewer. Nodes of the tree are
// stored in an arena and addressed by [Handle]; the per-tick scratch state
// of every node (its [Bounds] and [Placement]) lives in a separate table
// that is recomputed on every tick.
//
// # Two-Phase Update
//
// Every refresh tick runs two passes over the tree:
//
//  1. Update1stStep walks bottom-up and collects each node's minimum,
//     preferred and maximum slot count and its block alignment.
//  2. Update2ndStep walks top-down: every List solves how many slots each
//     child receives and where it starts, then recurses.
//
// A List whose children cannot fit even at their minimum sizes aborts its
// own subtree for that tick. The failure is logged, reported in the
// returned [Result] and never affects siblings or parents.
//
// # Usage
//
//	ctx := layout.NewContext()
//	layout.Set(ctx, layout.KeyColumns, 4)
//
//	tree := layout.NewTree(root, ctx, layout.WithLogger(logger))
//	tree.Activate()
//	res := tree.Update(layout.Placement{Size: 80})
//	if !res.OK() {
//	    logger.Warn("layout incomplete", "err", res.Err())
//	}
//
//	grid := layout.NewGrid(80, 4)
//	tree.Render(grid)
//
// A Tree is not safe for concurrent use. Callers serialize ticks, lifecycle
// calls and context mutation for one tree; trees of different viewers are
// independent and may be updated in parallel.
package layout
