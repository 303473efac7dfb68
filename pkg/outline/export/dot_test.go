package export

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/treeline/pkg/outline"
)

// demoSource shows docs expanded with a collapsed api folder inside, and a
// plain todo row. The v1 row exists in the snapshot but is not displayed.
func demoSource() *outline.Source {
	src := outline.NewSource(nil)
	src.Rebuild([]outline.Item{
		outline.NewBranch("docs", "Docs",
			outline.NewLeaf("guide", "Guide"),
			outline.NewBranch("api", "API",
				outline.NewLeaf("v1", "v1"),
			),
		),
		outline.NewLeaf("todo", "todo.txt"),
	}, func(id outline.ID) bool { return id == "docs" })
	return src
}

func titleLabel(item outline.Item) string {
	s, _ := item.Value.(string)
	return s
}

// dotLine returns the node statement for an identity, or "".
func dotLine(dot, id string) string {
	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), `"`+id+`" [`) {
			return line
		}
	}
	return ""
}

func TestDOT_DisplayedRowsOnly(t *testing.T) {
	dot := DOT(demoSource(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("DOT() output missing digraph declaration")
	}
	for _, id := range []string{"docs", "guide", "api", "todo"} {
		if dotLine(dot, id) == "" {
			t.Errorf("DOT() output missing displayed row %s", id)
		}
	}
	if dotLine(dot, "v1") != "" {
		t.Error("DOT() output contains a row hidden under a collapsed container")
	}

	if !strings.Contains(dot, `"docs" -> "guide"`) || !strings.Contains(dot, `"docs" -> "api"`) {
		t.Error("DOT() output missing parent edges")
	}
	if strings.Contains(dot, `-> "docs"`) || strings.Contains(dot, `-> "todo"`) {
		t.Error("DOT() output has edges into top-level rows")
	}
}

func TestDOT_DisclosureStyles(t *testing.T) {
	dot := DOT(demoSource(), Options{})

	expanded := dotLine(dot, "docs")
	if !strings.Contains(expanded, "folder") || !strings.Contains(expanded, "lightyellow") {
		t.Errorf("expanded container not drawn as an open folder: %s", expanded)
	}

	collapsed := dotLine(dot, "api")
	if !strings.Contains(collapsed, "dashed") || !strings.Contains(collapsed, "lightgrey") {
		t.Errorf("collapsed container not drawn dashed: %s", collapsed)
	}

	leaf := dotLine(dot, "todo")
	if strings.Contains(leaf, "folder") || strings.Contains(leaf, "dashed") {
		t.Errorf("plain row drawn as a container: %s", leaf)
	}
}

func TestDOT_Labels(t *testing.T) {
	dot := DOT(demoSource(), Options{Label: titleLabel})
	if !strings.Contains(dot, `label="Docs"`) || !strings.Contains(dot, `label="todo.txt"`) {
		t.Error("DOT() ignored the label function")
	}

	dot = DOT(demoSource(), Options{Label: titleLabel, Detailed: true})
	if !strings.Contains(dot, `label="Docs\ndocs"`) {
		t.Error("DOT() detailed output missing identity line")
	}
}

func TestFmtLabel(t *testing.T) {
	item := outline.NewLeaf("todo", "todo.txt")

	if got := fmtLabel(item, Options{}); got != "todo" {
		t.Errorf("fmtLabel() default = %q, want the identity", got)
	}
	if got := fmtLabel(item, Options{Label: titleLabel}); got != "todo.txt" {
		t.Errorf("fmtLabel() labeled = %q", got)
	}
	if got := fmtLabel(item, Options{Label: titleLabel, Detailed: true}); got != "todo.txt\ntodo" {
		t.Errorf("fmtLabel() detailed = %q", got)
	}
	// Identity-labeled rows are not doubled.
	if got := fmtLabel(item, Options{Detailed: true}); got != "todo" {
		t.Errorf("fmtLabel() detailed default = %q, want the identity once", got)
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(demoSource(), Options{Label: titleLabel})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var out jsonOutline
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("JSON() produced invalid JSON: %v", err)
	}

	ids := make([]string, len(out.Rows))
	depths := make([]int, len(out.Rows))
	for i, r := range out.Rows {
		ids[i] = r.ID
		depths[i] = r.Depth
	}
	wantIDs := []string{"docs", "guide", "api", "todo"}
	wantDepths := []int{0, 1, 1, 0}
	for i := range wantIDs {
		if i >= len(ids) || ids[i] != wantIDs[i] || depths[i] != wantDepths[i] {
			t.Fatalf("JSON() rows = %v at depths %v, want %v at %v", ids, depths, wantIDs, wantDepths)
		}
	}

	if !out.Rows[0].Expandable || !out.Rows[0].Expanded {
		t.Error("JSON() lost the expanded flag on docs")
	}
	if !out.Rows[2].Expandable || out.Rows[2].Expanded {
		t.Error("JSON() disclosure flags wrong on the collapsed api row")
	}
	if out.Rows[3].Expandable {
		t.Error("JSON() marked a plain row expandable")
	}
	if out.Rows[1].Label != "Guide" {
		t.Errorf("JSON() label = %q, want %q", out.Rows[1].Label, "Guide")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), DOT(demoSource(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "not valid DOT {{{"); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
