package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablistplus/pkg/errors"
	"github.com/matzehuels/tablistplus/pkg/store"
)

// hideCommand creates the hide command that hides players from every tab
// list.
func (c *CLI) hideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <uuid>...",
		Short: "Hide players from every tab list",
		Long: `Hide players from every tab list.

The players are added to the hidden set of the configured store. Running
proxies that share the store pick the change up on their next reload; a
redis or mongo store is shared immediately.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHidden(cmd.Context(), args, true)
		},
	}
}

// unhideCommand creates the unhide command, the inverse of hide. Without
// arguments it lists the hidden players.
func (c *CLI) unhideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unhide [uuid]...",
		Short: "Make hidden players visible again, or list them",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHidden(cmd.Context(), args, false)
		},
	}
}

func (c *CLI) runHidden(ctx context.Context, args []string, hide bool) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Opening "+cfg.Store.Backend+" store...")
	spinner.Start()
	st, err := store.Open(ctx, cfg.Store)
	spinner.Stop()
	if err != nil {
		return err
	}
	defer st.Close()

	if len(ids) == 0 {
		hidden, err := st.Hidden(ctx)
		if err != nil {
			return err
		}
		if len(hidden) == 0 {
			printInfo("No hidden players")
		}
		for _, id := range hidden {
			printDetail("%s", id)
		}
		return nil
	}

	for _, id := range ids {
		if hide {
			err = st.Hide(ctx, id)
		} else {
			err = st.Unhide(ctx, id)
		}
		if err != nil {
			return err
		}
		c.Logger.Debug("updated hidden set", "id", id, "hidden", hide)
	}
	verb := "Unhid"
	if hide {
		verb = "Hid"
	}
	printSuccess("%s %d player(s) in the %s store", verb, len(ids), cfg.Store.Backend)
	return nil
}

// parseIDs parses player UUIDs given on the command line.
func parseIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, a := range args {
		id, err := uuid.Parse(a)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid player id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
