package outline

import (
	"errors"
	"slices"
	"testing"
)

func TestAddRoots(t *testing.T) {
	tr := NewTree()
	if err := tr.Add("a", true, RootID, -1); err != nil {
		t.Fatalf("Add(a) returned %v", err)
	}
	if err := tr.Add("b", false, RootID, -1); err != nil {
		t.Fatalf("Add(b) returned %v", err)
	}
	if err := tr.Add("c", true, RootID, 1); err != nil {
		t.Fatalf("Add(c) returned %v", err)
	}

	want := []ID{"a", "c", "b"}
	if !slices.Equal(tr.Roots(), want) {
		t.Errorf("Roots() = %v, want %v", tr.Roots(), want)
	}
	if i, ok := tr.IndexOf("c"); !ok || i != 1 {
		t.Errorf("IndexOf(c) = %d, %v, want 1, true", i, ok)
	}
	if p, ok := tr.Parent("c"); !ok || p != RootID {
		t.Errorf("Parent(c) = %q, %v, want root, true", p, ok)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() returned %v", err)
	}
}

func TestAddErrors(t *testing.T) {
	tr := NewTree()
	if err := tr.Add("a", false, RootID, -1); err != nil {
		t.Fatalf("Add(a) returned %v", err)
	}
	if err := tr.Add("leaf", true, RootID, -1); err != nil {
		t.Fatalf("Add(leaf) returned %v", err)
	}

	tests := []struct {
		name   string
		id     ID
		leaf   bool
		parent ID
		want   error
	}{
		{"empty ID", "", false, RootID, ErrInvalidID},
		{"duplicate", "a", false, RootID, ErrDuplicateID},
		{"unknown parent", "x", false, "nope", ErrUnknownParent},
		{"collapsed parent", "x", false, "a", ErrNotExpanded},
		{"leaf parent", "x", false, "leaf", ErrNotExpanded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tr.Add(tt.id, tt.leaf, tt.parent, -1); !errors.Is(err, tt.want) {
				t.Errorf("Add(%q) returned %v, want %v", tt.id, err, tt.want)
			}
		})
	}
}

func TestAddUnderExpandedParent(t *testing.T) {
	tr := NewTree()
	if err := tr.Add("folder", false, RootID, -1); err != nil {
		t.Fatalf("Add(folder) returned %v", err)
	}
	if err := tr.Expand("folder", []Child{{ID: "x", Leaf: true}}); err != nil {
		t.Fatalf("Expand(folder) returned %v", err)
	}
	if err := tr.Add("y", true, "folder", 0); err != nil {
		t.Fatalf("Add(y) returned %v", err)
	}
	if kids, ok := tr.Children("folder"); !ok || !slices.Equal(kids, []ID{"y", "x"}) {
		t.Errorf("Children(folder) = %v, want [y x]", kids)
	}
	// An index past the end appends.
	if err := tr.Add("z", true, "folder", 99); err != nil {
		t.Fatalf("Add(z) returned %v", err)
	}
	if kids, _ := tr.Children("folder"); !slices.Equal(kids, []ID{"y", "x", "z"}) {
		t.Errorf("Children(folder) = %v, want [y x z]", kids)
	}
}

// Expanding materializes children; collapsing hides them again without
// losing expandability.
func TestExpandCollapseRoundTrip(t *testing.T) {
	tr := NewTree()
	if err := tr.Add("4", false, RootID, -1); err != nil {
		t.Fatalf("Add(4) returned %v", err)
	}
	if tr.Expanded("4") {
		t.Error("Expanded(4) = true before expansion")
	}
	if !tr.Expandable("4") {
		t.Error("Expandable(4) = false for a collapsed item")
	}

	if err := tr.Expand("4", []Child{{ID: "41", Leaf: true}, {ID: "42"}}); err != nil {
		t.Fatalf("Expand(4) returned %v", err)
	}
	kids, ok := tr.Children("4")
	if !ok || !slices.Equal(kids, []ID{"41", "42"}) {
		t.Errorf("Children(4) = %v, %v, want [41 42], true", kids, ok)
	}
	if !tr.Expanded("4") || !tr.Expandable("4") {
		t.Error("item 4 should be expanded and expandable after Expand")
	}
	if tr.Expandable("41") {
		t.Error("Expandable(41) = true for a leaf child")
	}
	if !tr.Expandable("42") || tr.Expanded("42") {
		t.Error("item 42 should be expandable and start collapsed")
	}
	// Expanding again is a no-op; the displayed list stays authoritative.
	if err := tr.Expand("4", []Child{{ID: "99"}}); err != nil {
		t.Errorf("Expand(4) again returned %v, want nil", err)
	}
	if tr.Contains("99") {
		t.Error("no-op Expand must not record new children")
	}

	if err := tr.Collapse("4"); err != nil {
		t.Fatalf("Collapse(4) returned %v", err)
	}
	if kids, ok := tr.Children("4"); ok || kids != nil {
		t.Errorf("Children(4) after collapse = %v, %v, want nil, false", kids, ok)
	}
	if !tr.Expandable("4") {
		t.Error("Expandable(4) = false after collapse, want true")
	}
	if tr.Contains("41") || tr.Contains("42") {
		t.Error("collapse must drop child records")
	}
	// Collapsing again is a no-op.
	if err := tr.Collapse("4"); err != nil {
		t.Errorf("Collapse(4) again returned %v, want nil", err)
	}
}

func TestExpandErrors(t *testing.T) {
	tr := NewTree()
	if err := tr.Add("leaf", true, RootID, -1); err != nil {
		t.Fatalf("Add(leaf) returned %v", err)
	}
	if err := tr.Add("a", false, RootID, -1); err != nil {
		t.Fatalf("Add(a) returned %v", err)
	}

	if err := tr.Expand("missing", nil); !errors.Is(err, ErrUnknownID) {
		t.Errorf("Expand(missing) returned %v, want ErrUnknownID", err)
	}
	if err := tr.Expand("leaf", nil); !errors.Is(err, ErrNotExpandable) {
		t.Errorf("Expand(leaf) returned %v, want ErrNotExpandable", err)
	}
	if err := tr.Collapse("leaf"); !errors.Is(err, ErrNotExpandable) {
		t.Errorf("Collapse(leaf) returned %v, want ErrNotExpandable", err)
	}
	if err := tr.Expand("a", []Child{{ID: ""}}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expand with empty child ID returned %v, want ErrInvalidID", err)
	}
	if err := tr.Expand("a", []Child{{ID: "leaf"}}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expand with recorded child ID returned %v, want ErrDuplicateID", err)
	}
	if err := tr.Expand("a", []Child{{ID: "x"}, {ID: "x"}}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expand with repeated child ID returned %v, want ErrDuplicateID", err)
	}
	// Failed expansions must not leave partial state behind.
	if tr.Expanded("a") {
		t.Error("failed Expand left item expanded")
	}
	if tr.Contains("x") {
		t.Error("failed Expand left child records behind")
	}
}

// Removing an expanded container drops its entire recorded subtree.
func TestRemoveCascade(t *testing.T) {
	tr := NewTree()
	for _, id := range []ID{"1", "2", "3", "5"} {
		if err := tr.Add(id, true, RootID, -1); err != nil {
			t.Fatalf("Add(%s) returned %v", id, err)
		}
	}
	if err := tr.Add("4", false, RootID, 3); err != nil {
		t.Fatalf("Add(4) returned %v", err)
	}
	expand := func(id ID, kids ...ID) {
		t.Helper()
		cs := make([]Child, len(kids))
		for i, k := range kids {
			cs[i] = Child{ID: k}
		}
		if err := tr.Expand(id, cs); err != nil {
			t.Fatalf("Expand(%s) returned %v", id, err)
		}
	}
	expand("4", "41", "42", "43")
	expand("41", "411", "412")
	expand("42", "421", "422")
	expand("43", "431", "432", "433")

	if tr.Len() != 15 {
		t.Fatalf("Len() = %d, want 15", tr.Len())
	}
	if !tr.Remove("4") {
		t.Fatal("Remove(4) = false, want true")
	}
	if tr.Len() != 4 {
		t.Errorf("Len() after cascade = %d, want 4", tr.Len())
	}
	want := []ID{"1", "2", "3", "5"}
	if !slices.Equal(tr.Roots(), want) {
		t.Errorf("Roots() = %v, want %v", tr.Roots(), want)
	}
	for _, id := range []ID{"4", "41", "421", "433"} {
		if tr.Contains(id) {
			t.Errorf("Contains(%s) = true after removal", id)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() returned %v", err)
	}
}

func TestRemoveUnknown(t *testing.T) {
	tr := NewTree()
	if tr.Remove("ghost") {
		t.Error("Remove(ghost) = true, want false")
	}
}

func TestLineage(t *testing.T) {
	tr := NewTree()
	if err := tr.Add("4", false, RootID, -1); err != nil {
		t.Fatalf("Add(4) returned %v", err)
	}
	if err := tr.Expand("4", []Child{{ID: "45"}}); err != nil {
		t.Fatalf("Expand(4) returned %v", err)
	}
	if err := tr.Expand("45", []Child{{ID: "455", Leaf: true}}); err != nil {
		t.Fatalf("Expand(45) returned %v", err)
	}

	chain, ok := tr.Lineage("455")
	if !ok {
		t.Fatal("Lineage(455) reported unknown")
	}
	want := []ID{"4", "45", "455"}
	if !slices.Equal(chain, want) {
		t.Errorf("Lineage(455) = %v, want %v", chain, want)
	}

	chain, _ = tr.Lineage("4")
	if !slices.Equal(chain, []ID{"4"}) {
		t.Errorf("Lineage(4) = %v, want [4]", chain)
	}
	if _, ok := tr.Lineage("ghost"); ok {
		t.Error("Lineage(ghost) reported known")
	}
}

func TestDescendants(t *testing.T) {
	tr := NewTree()
	if err := tr.Add("a", false, RootID, -1); err != nil {
		t.Fatalf("Add(a) returned %v", err)
	}
	if err := tr.Expand("a", []Child{{ID: "b"}, {ID: "c", Leaf: true}}); err != nil {
		t.Fatalf("Expand(a) returned %v", err)
	}
	if err := tr.Expand("b", []Child{{ID: "d", Leaf: true}}); err != nil {
		t.Fatalf("Expand(b) returned %v", err)
	}

	want := []ID{"b", "d", "c"}
	if got := tr.Descendants("a"); !slices.Equal(got, want) {
		t.Errorf("Descendants(a) = %v, want %v", got, want)
	}
	if got := tr.Descendants("c"); got != nil {
		t.Errorf("Descendants(c) = %v, want nil", got)
	}
}

func TestBuild(t *testing.T) {
	roots := []Item{
		NewLeaf("readme", nil),
		NewBranch("src", nil,
			NewBranch("pkg", nil, NewLeaf("a.go", nil)),
			NewLeaf("main.go", nil),
		),
		NewBranch("docs", nil, NewLeaf("guide", nil)),
	}
	expanded := map[ID]bool{"src": true}
	tr := Build(roots, func(id ID) bool { return expanded[id] })

	if !slices.Equal(tr.Roots(), []ID{"readme", "src", "docs"}) {
		t.Errorf("Roots() = %v", tr.Roots())
	}
	if kids, ok := tr.Children("src"); !ok || !slices.Equal(kids, []ID{"pkg", "main.go"}) {
		t.Errorf("Children(src) = %v, %v", kids, ok)
	}
	// pkg was visited but its predicate said collapsed: children absent.
	if !tr.Expandable("pkg") || tr.Expanded("pkg") {
		t.Error("pkg should be recorded collapsed")
	}
	if tr.Contains("a.go") {
		t.Error("children of a collapsed node must not be recorded")
	}
	// docs is collapsed at the root: guide never materialized.
	if tr.Contains("guide") {
		t.Error("guide should not be recorded under collapsed docs")
	}
	if tr.Expandable("readme") {
		t.Error("readme is a leaf")
	}
	if tr.Len() != 6 {
		t.Errorf("Len() = %d, want 6", tr.Len())
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() returned %v", err)
	}
}

func TestBuildFullyExpanded(t *testing.T) {
	roots := []Item{
		NewBranch("a", nil, NewBranch("b", nil, NewLeaf("c", nil))),
	}
	tr := Build(roots, func(ID) bool { return true })
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
	chain, _ := tr.Lineage("c")
	if !slices.Equal(chain, []ID{"a", "b", "c"}) {
		t.Errorf("Lineage(c) = %v, want [a b c]", chain)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	build := func() *Tree {
		tr := NewTree()
		if err := tr.Add("a", false, RootID, -1); err != nil {
			t.Fatalf("Add(a) returned %v", err)
		}
		if err := tr.Expand("a", []Child{{ID: "b", Leaf: true}}); err != nil {
			t.Fatalf("Expand(a) returned %v", err)
		}
		return tr
	}

	tr := build()
	tr.roots = append(tr.roots, "ghost")
	if err := tr.Validate(); !errors.Is(err, ErrDanglingChild) {
		t.Errorf("Validate() with dangling child returned %v, want ErrDanglingChild", err)
	}

	tr = build()
	tr.nodes["b"].parent = RootID
	if err := tr.Validate(); !errors.Is(err, ErrParentMismatch) {
		t.Errorf("Validate() with bad back-pointer returned %v, want ErrParentMismatch", err)
	}

	tr = build()
	tr.nodes["orphan"] = &node{id: "orphan", parent: "a", state: stateLeaf}
	if err := tr.Validate(); !errors.Is(err, ErrOrphanRecord) {
		t.Errorf("Validate() with orphan returned %v, want ErrOrphanRecord", err)
	}
}
