// Package treeviz draws a viewer's layout tree as a Graphviz diagram.
//
// # Overview
//
// Every node of a [layout.Tree] becomes a box labeled with its name and
// kind, connected to its parent. Detailed diagrams add the bounds from the
// last first step and the placement from the last second step, which makes
// it easy to see why a component got fewer slots than expected.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := treeviz.ToDOT(tree, treeviz.Options{Detailed: true, Result: res})
//	svg, err := treeviz.RenderSVG(dot)
//
// # Highlighting
//
// Lists listed in Options.Result as infeasible are filled red. Nodes that
// were never placed are drawn dashed.
package treeviz
