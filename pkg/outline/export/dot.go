package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treeline/pkg/outline"
)

// Options configures outline diagram rendering.
type Options struct {
	// Label produces a row's display text. When nil, or when it returns
	// an empty string, the row is labeled with its identity.
	Label func(item outline.Item) string

	// Detailed appends the identity beneath each label.
	// Rows labeled by identity are not doubled.
	Detailed bool
}

// DOT converts the displayed tree to Graphviz DOT format for rendering with
// [RenderSVG] or [RenderPNG]. Only displayed rows appear: collapsed
// containers are drawn with dashed outlines and grey fill, and their hidden
// subtrees are left out entirely.
func DOT(src *outline.Source, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges bytes.Buffer
	var walk func(parent outline.ID)
	walk = func(parent outline.ID) {
		n := src.NumberOfChildren(parent)
		for i := 0; i < n; i++ {
			item, ok := src.ChildAt(parent, i)
			if !ok {
				continue
			}
			attrs := fmtAttrs(src, item, fmtLabel(item, opts))
			fmt.Fprintf(&buf, "  %q [%s];\n", item.ID, strings.Join(attrs, ", "))
			if parent != outline.RootID {
				fmt.Fprintf(&edges, "  %q -> %q;\n", parent, item.ID)
			}
			walk(item.ID)
		}
	}
	walk(outline.RootID)

	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

func baseLabel(item outline.Item, opts Options) string {
	if opts.Label != nil {
		if text := opts.Label(item); text != "" {
			return text
		}
	}
	return string(item.ID)
}

func fmtLabel(item outline.Item, opts Options) string {
	label := baseLabel(item, opts)
	if opts.Detailed && label != string(item.ID) {
		label += "\n" + string(item.ID)
	}
	return label
}

func fmtAttrs(src *outline.Source, item outline.Item, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case src.IsExpanded(item.ID):
		attrs = append(attrs, "shape=folder", "fillcolor=lightyellow")
	case src.IsExpandable(item.ID):
		attrs = append(attrs, "shape=folder", "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// SVG renders the displayed tree as SVG. It is [DOT] followed by
// [RenderSVG].
func SVG(ctx context.Context, src *outline.Source, opts Options) ([]byte, error) {
	return RenderSVG(ctx, DOT(src, opts))
}

// PNG renders the displayed tree as PNG. It is [DOT] followed by
// [RenderPNG]. A scale of 2.0 produces a 2x resolution image suitable for
// high-DPI displays.
func PNG(ctx context.Context, src *outline.Source, opts Options, scale float64) ([]byte, error) {
	return RenderPNG(ctx, DOT(src, opts), scale)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the drawing starts at the
// origin with explicit pixel dimensions. Graphviz emits point-based sizes
// with offset viewboxes, which render at inconsistent scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}
