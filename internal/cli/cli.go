// Package cli implements the tablistplus command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablistplus/pkg/buildinfo"
	"github.com/matzehuels/tablistplus/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "tablistplus"

	// defaultPlayers is the number of synthetic players of layout and preview.
	defaultPlayers = 12
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// applyConfigLevel lowers the log level to cfg's log.level. The more verbose
// of --verbose and the config wins.
func (c *CLI) applyConfigLevel(cfg *config.Config) {
	if level := cfg.LogLevel(); level < c.Logger.GetLevel() {
		c.SetLogLevel(level)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tablistplus lays out and serves customizable tab lists",
		Long:         `Tablistplus builds per-player tab lists from a declarative component tree, solves the layout for the client's grid and keeps every connected player's list up to date.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.yml, .yaml or .toml; built-in default if empty)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.hideCommand())
	root.AddCommand(c.unhideCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads the file given by --config, or returns the built-in
// default when none is given.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath == "" {
		c.Logger.Debug("using built-in config")
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return cfg, nil
}
