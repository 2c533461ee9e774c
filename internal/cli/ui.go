package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tablistplus/pkg/layout"
)

// stdout receives command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

var (
	colorAccent  = lipgloss.Color("36")  // teal
	colorOK      = lipgloss.Color("35")  // green
	colorWarn    = lipgloss.Color("220") // amber
	colorErr     = lipgloss.Color("167") // soft red
	colorCommand = lipgloss.Color("75")  // light blue
	colorText    = lipgloss.Color("255")
	colorLabel   = lipgloss.Color("245")
	colorMuted   = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleURL     = lipgloss.NewStyle().Foreground(colorAccent)
	styleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleCommand = lipgloss.NewStyle().Foreground(colorCommand)

	styleIconOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleIconErr     = lipgloss.NewStyle().Foreground(colorErr)
	styleIconWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

const (
	iconOK    = "✓"
	iconErr   = "✗"
	iconWarn  = "!"
	iconInfo  = "›"
	iconArrow = "→"
)

func writeLine(line string) { fmt.Fprintln(stdout, line) }

func printSuccess(format string, args ...any) {
	writeLine(styleIconOK.Render(iconOK) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	writeLine(styleIconErr.Render(iconErr) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	writeLine(styleIconWarn.Render(iconWarn) + " " + styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	writeLine(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line below the previous message.
func printDetail(format string, args ...any) {
	writeLine("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a path the command wrote.
func printFile(path string) {
	writeLine("  " + styleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	writeLine(styleLabel.Render(key) + " " + styleValue.Render(value))
}

// statsLine summarizes a solved grid: its shape, the slots that show
// something and the number of players laid out.
func statsLine(g layout.Grid, players int) string {
	used := 0
	for _, slot := range g.Slots {
		if !slot.IsEmpty() {
			used++
		}
	}
	parts := []string{
		styleDim.Render(fmt.Sprintf("%d×%d grid", g.Rows(), g.Columns)),
		styleDim.Render(fmt.Sprintf("%d/%d slots used", used, len(g.Slots))),
		styleDim.Render(fmt.Sprintf("%d players", players)),
	}
	return "  " + strings.Join(parts, styleDim.Render(" · "))
}

func printStats(g layout.Grid, players int) { writeLine(statsLine(g, players)) }

// failureText describes a list that did not get the slots it needs.
func failureText(f layout.Infeasible) string {
	return fmt.Sprintf("list %d needs %d slots but was granted %d", f.Node, f.Needed, f.Size)
}

// printResult prints one warning per list that did not fit and, if any did
// not, points at the tree command.
func printResult(res layout.Result) {
	for _, f := range res.Failures {
		printWarning("%s", failureText(f))
	}
	if !res.OK() {
		printNextStep("Inspect the layout tree", appName+" tree -o layout.svg")
	}
}

func printNextStep(description, cmd string) {
	writeLine(styleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
