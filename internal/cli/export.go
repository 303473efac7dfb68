package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeline/pkg/doc"
	apperrors "github.com/matzehuels/treeline/pkg/errors"
	"github.com/matzehuels/treeline/pkg/outline"
	"github.com/matzehuels/treeline/pkg/outline/export"
)

// exportCommand creates the export command for rendering documents.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		all      bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "export [document.json]",
		Short: "Export the displayed outline as a diagram or row dump",
		Long: `Export an outline document as a diagram or row dump.

Exports render what a browser of the document would show: the rows reachable
through expanded folders. Disclosure comes from the document's saved
expansion state when one exists; otherwise, and with --all, the outline
renders fully expanded. Collapsed folders appear dashed with their contents
elided.

Formats:
  svg   vector diagram (graphviz)
  png   raster diagram (requires rsvg-convert)
  dot   graphviz source
  json  displayed rows with depth and disclosure flags

Use '-o -' to write dot or json to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apperrors.ValidateExportFormat(format); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], format, output, detailed, all, scale)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file ('-' for stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "append node ids to labels")
	cmd.Flags().BoolVar(&all, "all", false, "render fully expanded, ignoring saved state")
	cmd.Flags().Float64Var(&scale, "scale", 2.0, "png scale factor")

	return cmd
}

// runExport loads the document, rebuilds the displayed tree, and renders it.
func (c *CLI) runExport(ctx context.Context, path, format, output string, detailed, all bool, scale float64) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	d, err := doc.Load(path)
	if err != nil {
		return err
	}

	src := outline.NewSource(nil)
	if expanded := c.restoreExpansion(path, all); expanded != nil {
		src.Rebuild(d.Items(), expanded)
	} else {
		src.Apply(d.Items(), outline.ApplyOptions{AssumeExpanded: true})
	}

	opts := export.Options{Label: rowTitle, Detailed: detailed}

	prog := newProgress(c.Logger)
	var data []byte
	switch format {
	case "dot":
		data = []byte(export.DOT(src, opts))
	case "svg":
		data, err = export.SVG(ctx, src, opts)
	case "png":
		data, err = export.PNG(ctx, src, opts, scale)
	case "json":
		data, err = export.JSON(src, opts)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", format))

	if output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Exported %s", format)
	printFile(output)
	printDetail("%d of %d rows displayed", displayedRows(src), d.Stats().Nodes)
	return nil
}

// restoreExpansion returns the saved disclosure predicate for path, or nil
// when the export should render fully expanded (forced by --all, or nothing
// saved for this document).
func (c *CLI) restoreExpansion(path string, all bool) func(outline.ID) bool {
	if all {
		return nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil
	}
	store := newStore(cfg)
	if store == nil {
		return nil
	}
	set, ok, err := store.Load(path)
	if err != nil || !ok {
		return nil
	}
	return set.Predicate()
}

// displayedRows counts the rows currently reachable through expanded
// folders.
func displayedRows(src *outline.Source) int {
	var count func(outline.ID) int
	count = func(parent outline.ID) int {
		n := src.NumberOfChildren(parent)
		total := n
		for i := 0; i < n; i++ {
			if it, ok := src.ChildAt(parent, i); ok {
				total += count(it.ID)
			}
		}
		return total
	}
	return count(outline.RootID)
}
