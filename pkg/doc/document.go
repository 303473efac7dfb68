// Package doc implements treeline's document model: a tree of titled nodes
// stored as JSON, mutated by editing commands, and projected into outline
// snapshots.
//
// A [Document] owns the data; the outline engine only ever sees snapshots
// produced by [Document.Items]. After each mutation the caller pushes a
// fresh snapshot through the outline's Apply and the displayed rows catch
// up incrementally.
//
// Folders and plain nodes are distinct categories: a folder with no
// children is still expandable, a plain node never is. The distinction is
// kept through the JSON form (the "folder" flag) and through snapshots.
package doc

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/treeline/pkg/errors"
	"github.com/matzehuels/treeline/pkg/outline"
)

// Version is the document file format version.
const Version = 1

// Node is one row of the document tree.
type Node struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Folder   bool    `json:"folder,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Document is a full outline document.
type Document struct {
	Version int     `json:"version"`
	Title   string  `json:"title,omitempty"`
	Roots   []*Node `json:"roots"`
}

// New creates an empty document.
func New(title string) *Document {
	return &Document{Version: Version, Title: title}
}

// NewNode creates a node with a fresh identity.
func NewNode(title string, folder bool) *Node {
	return &Node{
		ID:     "n_" + uuid.New().String()[:8],
		Title:  title,
		Folder: folder,
	}
}

// Read parses and validates a document from its JSON form.
func Read(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "failed to parse document")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads a document from a file.
func Load(path string) (*Document, error) {
	if err := apperrors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "document %s does not exist", path)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to read %s", path)
	}
	return Read(data)
}

// Write returns the document's JSON form, indented for versioning-friendly
// diffs.
func (d *Document) Write() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to encode document")
	}
	return append(data, '\n'), nil
}

// Save validates the document and writes it to a file.
func (d *Document) Save(path string) error {
	if err := apperrors.ValidateDocumentPath(path); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	data, err := d.Write()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks structural integrity: a supported version, well-formed
// unique identities, single-line titles, and children only under folders.
func (d *Document) Validate() error {
	if d.Version != Version {
		return apperrors.New(apperrors.ErrCodeUnsupported, "document version %d not supported", d.Version)
	}
	seen := make(map[string]struct{})
	var walk func(*Node) error
	walk = func(n *Node) error {
		if err := apperrors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if err := apperrors.ValidateTitle(n.Title); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidDocument, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if !n.Folder && len(n.Children) > 0 {
			return apperrors.New(apperrors.ErrCodeInvalidDocument, "node %q has children but is not a folder", n.ID)
		}
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range d.Roots {
		if err := walk(r); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the node with the given identity, or nil.
func (d *Document) Find(id string) *Node {
	var found *Node
	var walk func(*Node) bool
	walk = func(n *Node) bool {
		if n.ID == id {
			found = n
			return true
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, r := range d.Roots {
		if walk(r) {
			break
		}
	}
	return found
}

// Parent returns the parent of a node and true. Top-level nodes report
// (nil, true); unknown identities report (nil, false).
func (d *Document) Parent(id string) (*Node, bool) {
	for _, r := range d.Roots {
		if r.ID == id {
			return nil, true
		}
	}
	var parent *Node
	var walk func(*Node) bool
	walk = func(n *Node) bool {
		for _, c := range n.Children {
			if c.ID == id {
				parent = n
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, r := range d.Roots {
		if walk(r) {
			return parent, true
		}
	}
	return nil, false
}

// IndexOf returns a node's position within its sibling list, or -1 for
// unknown identities.
func (d *Document) IndexOf(id string) int {
	parent, ok := d.Parent(id)
	if !ok {
		return -1
	}
	list := d.Roots
	if parent != nil {
		list = parent.Children
	}
	return slices.IndexFunc(list, func(n *Node) bool { return n.ID == id })
}

// Contains reports whether id sits at or below ancestorID.
func (d *Document) Contains(ancestorID, id string) bool {
	root := d.Find(ancestorID)
	if root == nil {
		return false
	}
	var walk func(*Node) bool
	walk = func(n *Node) bool {
		if n.ID == id {
			return true
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(root)
}

// Insert places a node under a parent ("" for the top level) at the given
// sibling position. Out-of-range positions append. Only folders accept
// children.
func (d *Document) Insert(n *Node, parentID string, at int) error {
	list := &d.Roots
	if parentID != "" {
		p := d.Find(parentID)
		if p == nil {
			return apperrors.New(apperrors.ErrCodeNodeNotFound, "no node with id %q", parentID)
		}
		if !p.Folder {
			return apperrors.New(apperrors.ErrCodeInvalidTarget, "node %q is not a folder", parentID)
		}
		list = &p.Children
	}
	if at < 0 || at > len(*list) {
		at = len(*list)
	}
	*list = slices.Insert(*list, at, n)
	return nil
}

// Remove detaches a node (with its subtree) from the document and returns
// it. Returns (nil, false) for unknown identities.
func (d *Document) Remove(id string) (*Node, bool) {
	parent, ok := d.Parent(id)
	if !ok {
		return nil, false
	}
	list := &d.Roots
	if parent != nil {
		list = &parent.Children
	}
	i := slices.IndexFunc(*list, func(n *Node) bool { return n.ID == id })
	if i < 0 {
		return nil, false
	}
	n := (*list)[i]
	*list = slices.Delete(*list, i, i+1)
	return n, true
}

// Move detaches a node and reinserts it under a new parent at the given
// sibling position. The position indexes the sibling list as it is after
// the removal. Moving a node into its own subtree is refused.
//
// All checks run before the document is touched, so a failed move leaves
// it unchanged.
func (d *Document) Move(id, parentID string, at int) error {
	if id == parentID || d.Contains(id, parentID) {
		return apperrors.New(apperrors.ErrCodeInvalidTarget, "cannot move %q into its own subtree", id)
	}
	if parentID != "" {
		p := d.Find(parentID)
		if p == nil {
			return apperrors.New(apperrors.ErrCodeNodeNotFound, "no node with id %q", parentID)
		}
		if !p.Folder {
			return apperrors.New(apperrors.ErrCodeInvalidTarget, "node %q is not a folder", parentID)
		}
	}
	n, ok := d.Remove(id)
	if !ok {
		return apperrors.New(apperrors.ErrCodeNodeNotFound, "no node with id %q", id)
	}
	return d.Insert(n, parentID, at)
}

// Items projects the document into an outline snapshot. Each item's value
// is the *Node itself, so widgets render straight from the document.
func (d *Document) Items() []outline.Item {
	return itemize(d.Roots)
}

func itemize(nodes []*Node) []outline.Item {
	items := make([]outline.Item, len(nodes))
	for i, n := range nodes {
		if n.Folder {
			items[i] = outline.NewBranch(outline.ID(n.ID), n, itemize(n.Children)...)
		} else {
			items[i] = outline.NewLeaf(outline.ID(n.ID), n)
		}
	}
	return items
}

// Stats summarizes a document for display.
type Stats struct {
	Nodes   int // total node count
	Folders int // nodes that can hold children
	Depth   int // deepest nesting level, 1 for a flat list
}

// Stats computes document statistics in one walk.
func (d *Document) Stats() Stats {
	var s Stats
	var walk func([]*Node, int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			s.Nodes++
			if n.Folder {
				s.Folders++
			}
			if depth > s.Depth {
				s.Depth = depth
			}
			walk(n.Children, depth+1)
		}
	}
	walk(d.Roots, 1)
	return s
}
