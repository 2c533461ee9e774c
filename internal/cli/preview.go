package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablistplus/pkg/buildinfo"
	"github.com/matzehuels/tablistplus/pkg/layout"
)

// previewCommand creates the preview command, an interactive view of the
// configured tab list.
func (c *CLI) previewCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Explore the configured tab list interactively",
		Long: `Explore the configured tab list interactively.

Keys:
  + / -   add or remove a synthetic player
  c       cycle the column count (1 to 4)
  r       reload the config file
  q       quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sb, err := c.newSandboxFromOpts(opts)
			if err != nil {
				return err
			}
			m := newPreviewModel(cmd.Context(), sb, c.reloadSandbox)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	opts.register(cmd)
	return cmd
}

// reloadSandbox reloads the config file into sb.
func (c *CLI) reloadSandbox(sb *sandbox) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	return sb.reload(cfg)
}

// PreviewModel is the bubbletea model of the preview command.
type PreviewModel struct {
	ctx    context.Context
	sb     *sandbox
	reload func(*sandbox) error

	grid   layout.Grid
	result layout.Result
	status string
	err    error
}

func newPreviewModel(ctx context.Context, sb *sandbox, reload func(*sandbox) error) PreviewModel {
	m := PreviewModel{ctx: ctx, sb: sb, reload: reload}
	m.refresh()
	return m
}

func (m *PreviewModel) refresh() {
	m.grid, m.result, m.err = m.sb.tick(m.ctx)
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "+", "=":
		if err := m.sb.add(1); err != nil {
			m.status = err.Error()
		}
	case "-":
		if !m.sb.removeLast() {
			m.status = "the viewer cannot leave"
		}
	case "c":
		_, cols := m.sb.mgr.Dimensions()
		if err := m.sb.setColumns(cols%4 + 1); err != nil {
			m.status = err.Error()
		}
	case "r":
		if m.reload == nil {
			break
		}
		if err := m.reload(m.sb); err != nil {
			m.status = err.Error()
		} else {
			m.status = "config reloaded"
		}
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(appName + " preview"))
	b.WriteString(" " + styleDim.Render(buildinfo.Short()))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("+/- players  c columns  r reload  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconErr.Render(iconErr) + " " + m.err.Error() + "\n")
		return b.String()
	}
	b.WriteString(gridTable(m.grid))
	b.WriteString("\n")

	size, cols := m.sb.mgr.Dimensions()
	b.WriteString(styleDim.Render(fmt.Sprintf("  %d players · %d slots · %d columns", m.sb.players(), size, cols)))
	b.WriteString("\n")
	for _, f := range m.result.Failures {
		b.WriteString(styleIconWarn.Render(iconWarn) + " " +
			styleWarn.Render(failureText(f)) + "\n")
	}
	if m.status != "" {
		b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.status + "\n")
	}
	return b.String()
}
