package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tablistplus/pkg/errors"
	"github.com/matzehuels/tablistplus/pkg/layout"
	"github.com/matzehuels/tablistplus/pkg/render/treeviz"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	layoutOpts
	output   string // output file, stdout if empty
	format   string // dot or svg, derived from output if empty
	detailed bool   // show bounds and placements
}

// treeCommand creates the tree command that renders the viewer's
// component tree after one tick.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{detailed: true}

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render the component tree as DOT or SVG",
		Long: `Render the component tree as DOT or SVG.

The tree is solved for synthetic players like the layout command does, so
every node shows its bounds and placement. Lists that did not fit are
highlighted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := treeFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			opts.format = format
			return c.runTree(cmd.Context(), opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg (default: from --output, else dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", opts.detailed, "show bounds and placements")
	return cmd
}

// treeFormat picks the output format from the flag or the file extension.
func treeFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(output), ".")
		if format == "" || format == "gv" {
			format = formatDOT
		}
	}
	switch format {
	case formatDOT, formatSVG:
		return format, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", format)
}

func (c *CLI) runTree(ctx context.Context, opts treeOpts) error {
	sb, err := c.newSandboxFromOpts(opts.layoutOpts)
	if err != nil {
		return err
	}
	if _, _, err := sb.tick(ctx); err != nil {
		return err
	}

	var dot string
	sb.inspect(func(t *layout.Tree, res layout.Result) {
		dot = treeviz.ToDOT(t, treeviz.Options{Detailed: opts.detailed, Result: res})
	})
	if dot == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no viewer to render, use --players 1 or more")
	}

	data := []byte(dot)
	if opts.format == formatSVG {
		if data, err = treeviz.RenderSVG(dot); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered component tree")
	printFile(opts.output)
	return nil
}
