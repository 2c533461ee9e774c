// Package render groups the visual outputs of tablistplus.
//
// Tab lists themselves are rendered by [layout.Tree.Render] into a
// [layout.Grid] and printed by the CLI. This package holds renderers for
// debugging the layout:
//
//   - Layout tree diagrams (in [treeviz] subpackage)
//
//	dot := treeviz.ToDOT(tree, treeviz.Options{Detailed: true})
//	svg, err := treeviz.RenderSVG(dot)
//
// [treeviz]: github.com/matzehuels/tablistplus/pkg/render/treeviz
// [layout.Tree.Render]: github.com/matzehuels/tablistplus/pkg/layout
// [layout.Grid]: github.com/matzehuels/tablistplus/pkg/layout
package render
