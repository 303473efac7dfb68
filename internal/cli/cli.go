// Package cli implements the treeline command-line interface.
//
// This package provides commands for browsing outline documents in an
// interactive terminal widget, exporting the displayed tree as diagrams or
// row dumps, and inspecting document structure. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - browse: Open a document in the interactive outline browser
//   - export: Render a document as SVG, PNG, DOT, or JSON
//   - info: Show document statistics
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// An optional TOML file at ~/.config/treeline/config.toml supplies defaults
// (indent width, autosave, state directory, drop fallback delay); command
// flags override file values. Expansion state autosaves per document under
// the state directory so a reopened document restores its disclosure.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeline/pkg/buildinfo"
	"github.com/matzehuels/treeline/pkg/outline/state"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treeline"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "treeline",
		Short:        "Treeline browses outline documents in the terminal",
		Long:         `Treeline is an expandable outline for the terminal: it keeps a shadow record of the rows on screen, diffs fresh document snapshots against it, and applies only the changed rows, with drag-and-drop placement guarded against dropping a folder into itself.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// newStore creates the expansion-state store, or nil when autosave is off.
// An undeterminable home directory silently disables autosave rather than
// failing the command.
func newStore(cfg Config) *state.Store {
	if !cfg.Autosave {
		return nil
	}
	dir := cfg.StateDir
	if dir == "" {
		var err error
		dir, err = stateDir()
		if err != nil {
			return nil
		}
	}
	st, err := state.NewStore(dir)
	if err != nil {
		return nil
	}
	return st
}

// =============================================================================
// Paths
// =============================================================================

// stateDir returns the state directory using XDG standard
// (~/.local/state/treeline/).
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// configPath returns the config file path using XDG standard
// (~/.config/treeline/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
