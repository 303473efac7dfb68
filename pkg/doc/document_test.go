package doc

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/treeline/pkg/errors"
)

func sample() *Document {
	return &Document{
		Version: Version,
		Title:   "Plan",
		Roots: []*Node{
			{ID: "inbox", Title: "Inbox"},
			{ID: "projects", Title: "Projects", Folder: true, Children: []*Node{
				{ID: "treeline", Title: "treeline", Folder: true, Children: []*Node{
					{ID: "readme", Title: "README"},
				}},
				{ID: "notes", Title: "notes.txt"},
			}},
			{ID: "archive", Title: "Archive", Folder: true},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	d := sample()
	first, err := d.Write()
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	parsed, err := Read(first)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	second, err := parsed.Write()
	if err != nil {
		t.Fatalf("second Write error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("round trip changed the document encoding")
	}
	if parsed.Title != "Plan" || len(parsed.Roots) != 3 {
		t.Errorf("round trip lost structure: title %q, %d roots", parsed.Title, len(parsed.Roots))
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read([]byte("{not json")); !apperrors.Is(err, apperrors.ErrCodeInvalidDocument) {
		t.Errorf("Read(garbage) = %v, want INVALID_DOCUMENT", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		code apperrors.Code
	}{
		{
			name: "valid",
			doc:  sample(),
			code: "",
		},
		{
			name: "wrong version",
			doc:  &Document{Version: 99},
			code: apperrors.ErrCodeUnsupported,
		},
		{
			name: "duplicate id",
			doc: &Document{Version: Version, Roots: []*Node{
				{ID: "a", Title: "one"},
				{ID: "a", Title: "two"},
			}},
			code: apperrors.ErrCodeInvalidDocument,
		},
		{
			name: "empty id",
			doc: &Document{Version: Version, Roots: []*Node{
				{ID: "", Title: "anonymous"},
			}},
			code: apperrors.ErrCodeInvalidNode,
		},
		{
			name: "multiline title",
			doc: &Document{Version: Version, Roots: []*Node{
				{ID: "a", Title: "one\ntwo"},
			}},
			code: apperrors.ErrCodeInvalidNode,
		},
		{
			name: "children under a plain node",
			doc: &Document{Version: Version, Roots: []*Node{
				{ID: "a", Title: "leaf", Children: []*Node{{ID: "b", Title: "child"}}},
			}},
			code: apperrors.ErrCodeInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !apperrors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.outline")
	d := sample()
	if err := d.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got, want := loaded.Stats(), d.Stats(); got != want {
		t.Errorf("loaded Stats() = %+v, want %+v", got, want)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.outline"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFind(t *testing.T) {
	d := sample()
	if n := d.Find("readme"); n == nil || n.Title != "README" {
		t.Errorf("Find(readme) = %+v", n)
	}
	if n := d.Find("ghost"); n != nil {
		t.Errorf("Find(ghost) = %+v, want nil", n)
	}
}

func TestParentAndIndexOf(t *testing.T) {
	d := sample()

	if p, ok := d.Parent("readme"); !ok || p == nil || p.ID != "treeline" {
		t.Errorf("Parent(readme) = %v, %v", p, ok)
	}
	if p, ok := d.Parent("inbox"); !ok || p != nil {
		t.Errorf("Parent(inbox) = %v, %v, want top level", p, ok)
	}
	if _, ok := d.Parent("ghost"); ok {
		t.Error("Parent(ghost) reported ok")
	}

	if i := d.IndexOf("notes"); i != 1 {
		t.Errorf("IndexOf(notes) = %d, want 1", i)
	}
	if i := d.IndexOf("archive"); i != 2 {
		t.Errorf("IndexOf(archive) = %d, want 2", i)
	}
	if i := d.IndexOf("ghost"); i != -1 {
		t.Errorf("IndexOf(ghost) = %d, want -1", i)
	}
}

func TestContains(t *testing.T) {
	d := sample()
	tests := []struct {
		ancestor, id string
		want         bool
	}{
		{"projects", "readme", true},
		{"projects", "projects", true},
		{"projects", "inbox", false},
		{"readme", "projects", false},
		{"ghost", "readme", false},
	}
	for _, tt := range tests {
		if got := d.Contains(tt.ancestor, tt.id); got != tt.want {
			t.Errorf("Contains(%s, %s) = %v, want %v", tt.ancestor, tt.id, got, tt.want)
		}
	}
}

func TestInsert(t *testing.T) {
	d := sample()

	if err := d.Insert(&Node{ID: "new", Title: "New"}, "projects", 0); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if p := d.Find("projects"); p.Children[0].ID != "new" {
		t.Errorf("Insert placed node at %d", d.IndexOf("new"))
	}

	// Out-of-range positions append.
	if err := d.Insert(&Node{ID: "tail", Title: "Tail"}, "", 99); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if i := d.IndexOf("tail"); i != 3 {
		t.Errorf("IndexOf(tail) = %d, want 3", i)
	}

	// Only folders accept children.
	err := d.Insert(&Node{ID: "x", Title: "X"}, "inbox", 0)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidTarget) {
		t.Errorf("Insert under a plain node = %v, want INVALID_TARGET", err)
	}
	err = d.Insert(&Node{ID: "y", Title: "Y"}, "ghost", 0)
	if !apperrors.Is(err, apperrors.ErrCodeNodeNotFound) {
		t.Errorf("Insert under ghost = %v, want NODE_NOT_FOUND", err)
	}
}

func TestRemove(t *testing.T) {
	d := sample()

	n, ok := d.Remove("treeline")
	if !ok || n == nil {
		t.Fatal("Remove(treeline) failed")
	}
	// The detached subtree stays intact.
	if len(n.Children) != 1 || n.Children[0].ID != "readme" {
		t.Errorf("detached subtree = %+v", n.Children)
	}
	if d.Find("readme") != nil {
		t.Error("readme still reachable after removing its parent")
	}
	if len(d.Find("projects").Children) != 1 {
		t.Error("projects still lists the removed child")
	}

	if _, ok := d.Remove("ghost"); ok {
		t.Error("Remove(ghost) reported ok")
	}
}

func TestMove(t *testing.T) {
	d := sample()

	// Root-level reorder; the position indexes the list after removal.
	if err := d.Move("inbox", "", 2); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if i := d.IndexOf("inbox"); i != 2 {
		t.Errorf("IndexOf(inbox) = %d, want 2", i)
	}

	// Across containers.
	if err := d.Move("notes", "archive", 0); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if p, _ := d.Parent("notes"); p == nil || p.ID != "archive" {
		t.Errorf("Parent(notes) = %v after move", p)
	}

	// Into its own subtree.
	err := d.Move("projects", "treeline", 0)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidTarget) {
		t.Errorf("Move into own subtree = %v, want INVALID_TARGET", err)
	}
	if p, _ := d.Parent("projects"); p != nil {
		t.Error("failed move relocated the node")
	}

	// Into a plain node.
	err = d.Move("archive", "readme", 0)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidTarget) {
		t.Errorf("Move into a plain node = %v, want INVALID_TARGET", err)
	}
}

func TestItemsSnapshot(t *testing.T) {
	d := sample()
	items := d.Items()

	if len(items) != 3 {
		t.Fatalf("Items() returned %d roots, want 3", len(items))
	}
	if items[0].Expandable() {
		t.Error("inbox should not be expandable")
	}
	kids, ok := items[1].Children()
	if !ok || len(kids) != 2 {
		t.Fatalf("projects children = %v, %v", kids, ok)
	}
	if kids[0].ID != "treeline" || kids[1].ID != "notes" {
		t.Errorf("projects children order = [%s %s]", kids[0].ID, kids[1].ID)
	}
	// An empty folder is expandable with zero children, not a leaf.
	kids, ok = items[2].Children()
	if !ok || len(kids) != 0 {
		t.Errorf("archive children = %v, %v, want empty list", kids, ok)
	}
	// Values carry the document nodes.
	if n, ok := items[1].Value.(*Node); !ok || n.Title != "Projects" {
		t.Errorf("Items() value = %+v", items[1].Value)
	}
}

func TestNewNode(t *testing.T) {
	a := NewNode("A", false)
	b := NewNode("B", true)

	if a.ID == b.ID {
		t.Error("NewNode produced duplicate ids")
	}
	for _, n := range []*Node{a, b} {
		if !strings.HasPrefix(n.ID, "n_") || len(n.ID) != len("n_")+8 {
			t.Errorf("NewNode id = %q", n.ID)
		}
	}
	if a.Folder || !b.Folder {
		t.Error("NewNode lost the folder flag")
	}
}

func TestStats(t *testing.T) {
	got := sample().Stats()
	want := Stats{Nodes: 6, Folders: 3, Depth: 3}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
