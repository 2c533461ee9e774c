package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tablistplus/pkg/layout"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed includes bounds and placement in node labels.
	// When false, only the node name and kind are shown.
	Detailed bool

	// Result marks the lists that failed in the last update.
	Result layout.Result
}

// ToDOT converts a layout tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(t *layout.Tree, opts Options) string {
	failed := make(map[layout.Handle]layout.Infeasible, len(opts.Result.Failures))
	for _, f := range opts.Result.Failures {
		failed[f.Node] = f
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for h := layout.Handle(0); int(h) < t.Len(); h++ {
		f, isFailed := failed[h]
		label := fmtLabel(t, h, opts.Detailed)
		if isFailed {
			label += fmt.Sprintf("\nneeds %d of %d", f.Needed, f.Size)
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(h), strings.Join(fmtAttrs(t, h, label, isFailed), ", "))
	}

	buf.WriteString("\n")
	for h := layout.Handle(0); int(h) < t.Len(); h++ {
		for _, c := range t.Children(h) {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(h), nodeID(c))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(h layout.Handle) string {
	return "n" + strconv.Itoa(int(h))
}

func fmtLabel(t *layout.Tree, h layout.Handle, detailed bool) string {
	label := t.Name(h)
	if k := t.Kind(h).String(); k != label {
		label += " (" + k + ")"
	}
	if !detailed {
		return label
	}

	parts := []string{"bounds: " + t.Bounds(h).String()}
	if p, ok := t.Placement(h); ok {
		parts = append(parts, "at: "+p.String())
	} else {
		parts = append(parts, "at: -")
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(t *layout.Tree, h layout.Handle, label string, failed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case failed:
		attrs = append(attrs, "fillcolor=\"#f8d7da\"", "color=\"#b02a37\"")
	case t.Kind(h) == layout.KindColumnSplit:
		attrs = append(attrs, "fillcolor=\"#e7f1ff\"")
	}
	if _, ok := t.Placement(h); !ok {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based size attributes with a
// plain viewBox so the SVG scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
