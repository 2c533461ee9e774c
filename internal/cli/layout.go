package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablistplus/pkg/layout"
)

// layoutOpts holds the command-line flags shared by layout and preview.
type layoutOpts struct {
	players int    // number of synthetic players
	servers string // comma-separated server names players are spread over
	columns int    // overrides tablist.columns when > 0
}

func (o *layoutOpts) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.players, "players", "n", defaultPlayers, "number of synthetic players")
	cmd.Flags().StringVarP(&o.servers, "servers", "s", "lobby", "servers to spread players over (comma-separated)")
	cmd.Flags().IntVar(&o.columns, "columns", 0, "column count (default: tablist.columns from the config)")
}

// layoutCommand creates the layout command that prints one solved tab list.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out the configured tab list for synthetic players",
		Long: `Lay out the configured tab list for synthetic players.

The layout command joins --players synthetic players spread over --servers,
solves the tab list of the first player and prints the resulting grid.
Lists that do not fit their granted space are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// newSandboxFromOpts loads the config and joins the synthetic players.
func (c *CLI) newSandboxFromOpts(opts layoutOpts) (*sandbox, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if opts.columns > 0 {
		cfg.TabList.Columns = opts.columns
	}
	sb, err := newSandbox(cfg, parseServers(opts.servers), c.Logger)
	if err != nil {
		return nil, err
	}
	if opts.columns > 0 {
		if err := sb.setColumns(opts.columns); err != nil {
			return nil, err
		}
	}
	if err := sb.add(opts.players); err != nil {
		return nil, err
	}
	return sb, nil
}

func (c *CLI) runLayout(ctx context.Context, opts layoutOpts) error {
	prog := newProgress(c.Logger)
	sb, err := c.newSandboxFromOpts(opts)
	if err != nil {
		return err
	}
	grid, res, err := sb.tick(ctx)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Solved layout for %d players", sb.players()))

	writeLine(gridTable(grid))
	printStats(grid, sb.players())
	printResult(res)
	return nil
}

// gridTable renders g as a table with one cell per slot.
func gridTable(g layout.Grid) string {
	rows := make([][]string, 0, g.Rows())
	for r := 0; r < g.Rows(); r++ {
		row := make([]string, g.Columns)
		for col := range row {
			row[col] = g.At(r, col).Text
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		BorderRow(false).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1).Width(20)
			if row < 0 {
				return base
			}
			if s := g.At(row, col); s.Skin != "" {
				return base.Foreground(colorOK)
			}
			return base.Foreground(colorText)
		}).
		Render()
}
