package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tablistplus/pkg/player"
	"github.com/matzehuels/tablistplus/pkg/scheduler"
	"github.com/matzehuels/tablistplus/pkg/server"
	"github.com/matzehuels/tablistplus/pkg/store"
	"github.com/matzehuels/tablistplus/pkg/tablist"
)

// serveCommand creates the serve command that runs the tab list service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tab list refresher and the admin HTTP API",
		Long: `Run the tab list refresher and the admin HTTP API.

Serve opens the configured hidden-player store, starts the refresher that
resends every tab list each tablist_update_interval seconds and serves the
admin API until interrupted. SIGHUP or POST /reload reloads the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: http.addr from the config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.applyConfigLevel(cfg)
	logger := c.Logger
	ctx = withLogger(ctx, logger)
	if addr == "" {
		addr = cfg.HTTP.Addr
	}

	spinner := newSpinnerWithContext(ctx, "Opening "+cfg.Store.Backend+" store...")
	spinner.Start()
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		spinner.StopWithError("Could not open " + cfg.Store.Backend + " store")
		return err
	}
	spinner.Stop()
	defer st.Close()

	reg := player.NewRegistry(player.WithStore(st), player.WithLogger(logger))
	if err := reg.Load(ctx); err != nil {
		return err
	}
	root, err := tablist.Build(cfg.TabList, reg)
	if err != nil {
		return err
	}

	refresher := &scheduler.Refresher{
		Interval: cfg.Interval(),
		Workers:  cfg.Workers,
		Logger:   logger,
	}
	mgr := tablist.NewManager(reg, root,
		tablist.WithSink(tablist.LogSink(logger)),
		tablist.WithNotifier(refresher),
		tablist.WithDimensions(cfg.TabList.Size, cfg.TabList.Columns),
		tablist.WithLogger(logger),
	)
	defer mgr.Close()
	refresher.Players = mgr.IDs
	refresher.Refresh = mgr.Refresh

	reload := func(context.Context) error {
		next, err := c.loadConfig()
		if err != nil {
			return err
		}
		root, err := tablist.Build(next.TabList, reg)
		if err != nil {
			return err
		}
		if size, cols := mgr.Dimensions(); size != next.TabList.Size || cols != next.TabList.Columns {
			if err := mgr.Resize(next.TabList.Size, next.TabList.Columns); err != nil {
				return err
			}
		}
		mgr.Reload(root)
		refresher.SetInterval(next.Interval())
		return nil
	}
	srv := server.New(mgr, server.WithReloader(reload), server.WithLogger(logger))

	printKeyValue("Listening", styleURL.Render("http://"+addr))
	printKeyValue("Store", cfg.Store.Backend)
	printKeyValue("Tab list", strconv.Itoa(cfg.TabList.Size)+" slots, "+strconv.Itoa(cfg.TabList.Columns)+" columns")
	printKeyValue("Interval", refresher.CurrentInterval().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return refresher.Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx, addr) })
	g.Go(func() error { return reloadOnHangup(ctx, reload) })
	return g.Wait()
}

// reloadOnHangup calls reload on every SIGHUP until ctx ends. A failed
// reload is logged and the old config stays active.
func reloadOnHangup(ctx context.Context, reload func(context.Context) error) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	return reloadOn(ctx, hup, reload)
}

// reloadOn calls reload for every value received on sig until ctx ends.
func reloadOn(ctx context.Context, sig <-chan os.Signal, reload func(context.Context) error) error {
	logger := loggerFromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sig:
			if err := reload(ctx); err != nil {
				logger.Error("reload failed", "err", err)
				continue
			}
			logger.Info("config reloaded")
		}
	}
}
