package tablist

import (
	"strconv"

	"github.com/matzehuels/tablistplus/pkg/config"
	"github.com/matzehuels/tablistplus/pkg/errors"
	"github.com/matzehuels/tablistplus/pkg/layout"
)

// Build turns the tab list definition into a component template. The
// top-level components form one list that fills the whole tab list.
func Build(def config.TabListConfig, src PlayerSource) (layout.Component, error) {
	children, err := buildAll(def.Components, src, "tablist.components")
	if err != nil {
		return nil, err
	}
	return layout.NewList(children...), nil
}

func buildAll(defs []config.ComponentDef, src PlayerSource, path string) ([]layout.Component, error) {
	out := make([]layout.Component, 0, len(defs))
	for i, d := range defs {
		c, err := buildOne(d, src, fmtPath(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func buildOne(d config.ComponentDef, src PlayerSource, path string) (layout.Component, error) {
	switch d.Type {
	case config.TypeText:
		return layout.NewLeaf(Text{Text: d.Text, Align: d.Align}), nil
	case config.TypeSpacer:
		return layout.NewLeaf(Spacer{Slots: max(d.Size, 1), Align: d.Align}), nil
	case config.TypeFill:
		return layout.NewLeaf(Fill{Min: d.Min, Max: d.Max, Align: d.Align}), nil
	case config.TypePlayers:
		return layout.NewLeaf(&Players{
			Source:   src,
			Filter:   Filter(d.Filter),
			Min:      d.Min,
			Max:      d.Max,
			Overflow: d.Overflow,
			Sort:     SortBy(d.Sort),
			Align:    d.Align,
		}), nil
	case config.TypeList:
		children, err := buildAll(d.Components, src, path+".components")
		if err != nil {
			return nil, err
		}
		return layout.NewList(children...), nil
	case config.TypeColumns:
		if len(d.Columns) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidComponent, "%s: columns component needs at least one column", path)
		}
		split := layout.NewColumnSplit()
		for _, c := range d.Columns {
			if c.Index < 0 {
				return nil, errors.New(errors.ErrCodeInvalidComponent, "%s: negative column index %d", path, c.Index)
			}
			split.AddColumn(c.Index, &PlayerColumn{Source: src, FilterExpr: Filter(c.Filter), Sort: SortBy(d.Sort)})
		}
		return split, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidComponent, "%s: unknown component type %q", path, d.Type)
}

func fmtPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
