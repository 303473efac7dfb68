package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeline/pkg/doc"
)

// infoCommand creates the info command for inspecting documents.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [document.json]",
		Short: "Show outline document statistics",
		Long: `Show statistics for an outline document: node counts, nesting depth,
whether saved expansion state exists, and a breakdown of the top-level
items.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(args[0])
		},
	}
}

// runInfo loads the document and prints its structure summary.
func (c *CLI) runInfo(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	d, err := doc.Load(path)
	if err != nil {
		return err
	}

	st := d.Stats()

	fmt.Println(StyleTitle.Render(d.Title))
	fmt.Println(StyleDim.Render(path))
	fmt.Println()
	printDetail("%d nodes, %d folders, %d notes, depth %d",
		st.Nodes, st.Folders, st.Nodes-st.Folders, st.Depth)
	if n, ok := c.savedExpansion(path); ok {
		printDetail("saved expansion state: %d folders disclosed", n)
	}
	fmt.Println()

	rows := make([][]string, 0, len(d.Roots))
	for _, r := range d.Roots {
		kind := "note"
		if r.Folder {
			kind = "folder"
		}
		rows = append(rows, []string{
			r.Title,
			kind,
			fmt.Sprintf("%d", len(r.Children)),
			fmt.Sprintf("%d", subtreeSize(r)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Item", "Kind", "Children", "Subtree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleValue
			}
			return StyleDim
		})

	fmt.Println(t.Render())
	return nil
}

// savedExpansion reports whether stored disclosure exists for path and how
// many folders it records as expanded.
func (c *CLI) savedExpansion(path string) (int, bool) {
	cfg, err := c.loadConfig()
	if err != nil {
		return 0, false
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return 0, false
	}
	store := newStore(cfg)
	if store == nil {
		return 0, false
	}
	set, ok, err := store.Load(path)
	if err != nil || !ok {
		return 0, false
	}
	return len(set.Expanded), true
}

// subtreeSize counts a node and everything below it.
func subtreeSize(n *doc.Node) int {
	total := 1
	for _, k := range n.Children {
		total += subtreeSize(k)
	}
	return total
}
