package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/tablistplus/pkg/layout"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestStatsLine(t *testing.T) {
	g := layout.NewGrid(8, 2)
	g.Slots[0].Text = "Header"
	g.Slots[2].Text = "Alice"
	g.Slots[3].Text = "Bob"

	line := statsLine(*g, 5)
	for _, want := range []string{"4×2 grid", "3/8 slots used", "5 players"} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name string
		res  layout.Result
		want []string
	}{
		{name: "fits", res: layout.Result{}},
		{
			name: "infeasible list",
			res:  layout.Result{Failures: []layout.Infeasible{{Node: 3, Needed: 5, Size: 2}}},
			want: []string{"list 3 needs 5 slots but was granted 2", appName + " tree -o layout.svg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdout(t)
			printResult(tt.res)
			if len(tt.want) == 0 && buf.Len() != 0 {
				t.Errorf("output = %q, want nothing", buf.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output = %q, missing %q", buf.String(), want)
				}
			}
		})
	}
}

func TestPrintKeyValue(t *testing.T) {
	buf := captureStdout(t)
	printKeyValue("Store", "redis")
	got := buf.String()
	if i, j := strings.Index(got, "Store"), strings.Index(got, "redis"); i < 0 || j < i {
		t.Errorf("printKeyValue() = %q, want label then value", got)
	}
}
