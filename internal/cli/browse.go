package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeline/pkg/doc"
)

// browseCommand creates the browse command for the interactive outline
// browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		lazy       bool
		noAutosave bool
		indent     int
		stateDir   string
	)

	cmd := &cobra.Command{
		Use:   "browse [document.json]",
		Short: "Browse an outline document interactively",
		Long: `Browse an outline document in an interactive terminal widget.

The browser keeps a shadow record of the rows on screen and reconciles it
against the document after every edit, applying only the rows that changed.
Folders expand and collapse in place, and expansion state autosaves per
document so a reopened file restores its disclosure.

Rows move with grab-and-drop: press m on a row, pick a target with the arrow
keys, then ⏎ drops after the target and ⇥ drops inside it. A placement that
would sink a folder into its own subtree is denied before anything mutates.

A path that does not exist yet opens as a new empty document; without a path
the browser opens a small demo outline.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("indent") {
				cfg.IndentWidth = indent
			}
			if cmd.Flags().Changed("state-dir") {
				cfg.StateDir = stateDir
			}
			if noAutosave {
				cfg.Autosave = false
			}
			if err := cfg.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runBrowse(path, cfg, lazy)
		},
	}

	cmd.Flags().BoolVar(&lazy, "lazy", false, "resolve folder children only on first expansion")
	cmd.Flags().BoolVar(&noAutosave, "no-autosave", false, "do not persist expansion state")
	cmd.Flags().IntVar(&indent, "indent", 0, "spaces per outline level (1-8)")
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "directory for expansion state")

	return cmd
}

// runBrowse loads or creates the document and runs the browser.
func (c *CLI) runBrowse(path string, cfg Config, lazy bool) error {
	var d *doc.Document
	switch {
	case path == "":
		d = demoDocument()
		c.Logger.Debug("no document given, opening demo outline")
	default:
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			d = doc.New(filepath.Base(path))
			c.Logger.Debug("starting new document", "path", path)
		} else {
			var err error
			d, err = doc.Load(path)
			if err != nil {
				return err
			}
		}
	}

	installHooks(c.Logger)
	c.Logger.Debug("opening browser", "nodes", d.Stats().Nodes, "lazy", lazy)

	model := newOutlinerModel(c, cfg, d, path, lazy)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	if m, ok := final.(*outlinerModel); ok && m.unsaved {
		printWarning("unsaved changes discarded (press s in the browser to save)")
	}
	return nil
}
