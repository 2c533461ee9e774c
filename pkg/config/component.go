package config

import (
	"fmt"

	"github.com/matzehuels/tablistplus/pkg/errors"
)

// Component types.
const (
	TypeText    = "text"
	TypeSpacer  = "spacer"
	TypeFill    = "fill"
	TypePlayers = "players"
	TypeList    = "list"
	TypeColumns = "columns"
)

// Player sort orders.
const (
	SortDefault = "default"
	SortName    = "name"
	SortPing    = "ping"
	SortJoined  = "joined"
)

// ComponentDef declares one component of the tab list.
//
// Which fields apply depends on Type:
//
//	text     text, align
//	spacer   size, align
//	fill     min, max, align
//	players  filter, min, max, overflow, sort, align
//	list     components
//	columns  columns
type ComponentDef struct {
	Type       string         `yaml:"type" toml:"type"`
	Text       string         `yaml:"text,omitempty" toml:"text,omitempty"`
	Size       int            `yaml:"size,omitempty" toml:"size,omitempty"`
	Min        int            `yaml:"min,omitempty" toml:"min,omitempty"`
	Max        int            `yaml:"max,omitempty" toml:"max,omitempty"`
	Filter     string         `yaml:"filter,omitempty" toml:"filter,omitempty"`
	Overflow   string         `yaml:"overflow,omitempty" toml:"overflow,omitempty"`
	Sort       string         `yaml:"sort,omitempty" toml:"sort,omitempty"`
	Align      bool           `yaml:"align,omitempty" toml:"align,omitempty"`
	Components []ComponentDef `yaml:"components,omitempty" toml:"components,omitempty"`
	Columns    []ColumnDef    `yaml:"columns,omitempty" toml:"columns,omitempty"`
}

// ColumnDef assigns a player filter to one grid column of a columns
// component. Columns without a definition stay empty.
type ColumnDef struct {
	Index  int    `yaml:"index" toml:"index"`
	Filter string `yaml:"filter" toml:"filter"`
}

func (d *ComponentDef) validate(path string, columns int) error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidComponent, "%s: %s", path, fmt.Sprintf(format, args...))
	}
	if d.Min < 0 || d.Max < 0 || d.Size < 0 {
		return invalid("sizes must not be negative")
	}
	if d.Max > 0 && d.Min > d.Max {
		return invalid("min (%d) exceeds max (%d)", d.Min, d.Max)
	}
	if d.Type != TypeList && len(d.Components) > 0 {
		return invalid("%s component cannot have nested components", d.Type)
	}
	if d.Type != TypeColumns && len(d.Columns) > 0 {
		return invalid("%s component cannot have columns", d.Type)
	}

	switch d.Type {
	case TypeText, TypeFill:
	case TypeSpacer:
		if d.Size == 0 {
			d.Size = 1
		}
	case TypePlayers:
		switch d.Sort {
		case "":
			d.Sort = SortDefault
		case SortDefault, SortName, SortPing, SortJoined:
		default:
			return invalid("unknown sort %q", d.Sort)
		}
	case TypeList:
		for i := range d.Components {
			if err := d.Components[i].validate(fmt.Sprintf("%s.components[%d]", path, i), columns); err != nil {
				return err
			}
		}
	case TypeColumns:
		if len(d.Columns) == 0 {
			return invalid("columns component needs at least one column")
		}
		seen := make(map[int]bool, len(d.Columns))
		for _, c := range d.Columns {
			if c.Index < 0 || c.Index >= columns {
				return invalid("column index %d out of range [0,%d)", c.Index, columns)
			}
			if seen[c.Index] {
				return invalid("column %d assigned twice", c.Index)
			}
			seen[c.Index] = true
		}
	case "":
		return invalid("missing component type")
	default:
		return invalid("unknown component type %q", d.Type)
	}
	return nil
}
