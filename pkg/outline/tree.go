package outline

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidID is returned by [Tree.Add] and [Tree.Expand] when an item
	// identity is empty. The empty identity is reserved for the root
	// container.
	ErrInvalidID = errors.New("item ID must not be empty")

	// ErrDuplicateID is returned by [Tree.Add] and [Tree.Expand] when an
	// identity is already recorded somewhere in the tree. Identities must be
	// unique across the entire displayed tree, not just among siblings.
	ErrDuplicateID = errors.New("duplicate item ID")

	// ErrUnknownID is returned by [Tree.Expand] and [Tree.Collapse] when the
	// identity has no record, and by [Source.ExpandItem] and
	// [Source.CollapseItem] for identities the view is not displaying.
	ErrUnknownID = errors.New("unknown item ID")

	// ErrUnknownParent is returned by [Tree.Add] when the parent identity has
	// no record. Rows can only be added under displayed containers.
	ErrUnknownParent = errors.New("unknown parent ID")

	// ErrNotExpandable is returned by [Tree.Expand] and [Tree.Collapse] when
	// the item is a leaf. Leaves never hold children.
	ErrNotExpandable = errors.New("item is not expandable")

	// ErrNotExpanded is returned by [Tree.Add] when the parent is collapsed.
	// Children of a collapsed container are not materialized, so there is no
	// child list to insert into.
	ErrNotExpanded = errors.New("parent is not expanded")

	// ErrDanglingChild is returned by [Tree.Validate] when a child list
	// references an identity with no record. This indicates corruption.
	ErrDanglingChild = errors.New("child list references missing record")

	// ErrParentMismatch is returned by [Tree.Validate] when a record's parent
	// back-pointer disagrees with the child list containing it.
	ErrParentMismatch = errors.New("parent back-pointer mismatch")

	// ErrOrphanRecord is returned by [Tree.Validate] when a record is not
	// reachable from the root list. Every record must sit in exactly one
	// child list.
	ErrOrphanRecord = errors.New("record not reachable from roots")
)

// nodeState is the disclosure state of a recorded item.
type nodeState int

const (
	// stateLeaf marks an item that can never have children.
	stateLeaf nodeState = iota
	// stateCollapsed marks an expandable item whose children are not
	// materialized. Collapsed records deliberately hold no child list.
	stateCollapsed
	// stateExpanded marks an expandable item with an ordered child list.
	stateExpanded
)

// node is one record in the shadow tree. Records exist only for items the
// view is actually displaying (roots, plus children of expanded containers).
type node struct {
	id       ID
	parent   ID // RootID for top-level rows
	state    nodeState
	children []ID // ordered, only meaningful when state == stateExpanded
}

// Child describes one child supplied to [Tree.Expand]: its identity and
// whether it is a leaf. Expansion only needs the category — payloads stay
// with the host.
type Child struct {
	ID   ID
	Leaf bool
}

// Tree is the shadow record of what an outline widget currently displays.
// It is a flat identity-keyed table plus an ordered root list; each record
// carries a parent back-pointer so ancestry is a pointer walk, never a
// search. Children of collapsed containers are intentionally absent — the
// tree mirrors the widget, not the backing data.
//
// The zero value is not usable; use [NewTree] or [Build]. Tree is not safe
// for concurrent use.
type Tree struct {
	nodes map[ID]*node
	roots []ID
}

// NewTree creates an empty shadow tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[ID]*node)}
}

// Build seeds a tree from a snapshot in one pass, bypassing reconciliation.
// Expandable items whose identity satisfies the expanded predicate are
// recorded expanded and their children visited recursively; other expandable
// items are recorded collapsed. A nil predicate collapses everything.
//
// Build is the construction-time shortcut: use it when there is no displayed
// state to diff against, for example when restoring a saved disclosure set.
func Build(roots []Item, expanded func(ID) bool) *Tree {
	if expanded == nil {
		expanded = func(ID) bool { return false }
	}
	t := NewTree()
	t.roots = t.seed(RootID, roots, expanded)
	return t
}

func (t *Tree) seed(parent ID, items []Item, expanded func(ID) bool) []ID {
	ids := make([]ID, len(items))
	for i, it := range items {
		ids[i] = it.ID
		rec := &node{id: it.ID, parent: parent}
		t.nodes[it.ID] = rec
		switch {
		case !it.Expandable():
			rec.state = stateLeaf
		case expanded(it.ID):
			// Children are resolved only for nodes that actually expand;
			// collapsed subtrees stay untouched, lazy callbacks included.
			rec.state = stateExpanded
			kids, _ := it.Children()
			rec.children = t.seed(it.ID, kids, expanded)
		default:
			rec.state = stateCollapsed
		}
	}
	return ids
}

// Add records a new item under parent at the given index. Use [RootID] as
// parent for a top-level row; a negative index (or one past the end)
// appends. The leaf flag fixes the item's category: leaves can never be
// expanded later.
//
// Returns [ErrInvalidID] for an empty identity, [ErrDuplicateID] if the
// identity is already recorded, [ErrUnknownParent] if the parent has no
// record, or [ErrNotExpanded] if the parent is collapsed or a leaf.
func (t *Tree) Add(id ID, leaf bool, parent ID, at int) error {
	if id == RootID {
		return ErrInvalidID
	}
	if _, exists := t.nodes[id]; exists {
		return ErrDuplicateID
	}
	list := &t.roots
	if parent != RootID {
		p, ok := t.nodes[parent]
		if !ok {
			return ErrUnknownParent
		}
		if p.state != stateExpanded {
			return ErrNotExpanded
		}
		list = &p.children
	}
	if at < 0 || at > len(*list) {
		at = len(*list)
	}
	st := stateCollapsed
	if leaf {
		st = stateLeaf
	}
	t.nodes[id] = &node{id: id, parent: parent, state: st}
	*list = slices.Insert(*list, at, id)
	return nil
}

// Expand transitions a collapsed record to expanded, materializing the given
// children as fresh records. Expanding an already-expanded item is a no-op
// and returns nil — the supplied children are ignored, since the displayed
// list is already authoritative.
//
// Returns [ErrUnknownID] if the item has no record, [ErrNotExpandable] for
// leaves, [ErrInvalidID] or [ErrDuplicateID] if a supplied child identity is
// empty or already recorded anywhere in the tree.
func (t *Tree) Expand(id ID, children []Child) error {
	rec, ok := t.nodes[id]
	if !ok {
		return ErrUnknownID
	}
	switch rec.state {
	case stateLeaf:
		return ErrNotExpandable
	case stateExpanded:
		return nil
	}
	seen := make(map[ID]bool, len(children))
	for _, c := range children {
		if c.ID == RootID {
			return ErrInvalidID
		}
		if _, exists := t.nodes[c.ID]; exists || seen[c.ID] {
			return ErrDuplicateID
		}
		seen[c.ID] = true
	}
	rec.state = stateExpanded
	rec.children = make([]ID, len(children))
	for i, c := range children {
		st := stateCollapsed
		if c.Leaf {
			st = stateLeaf
		}
		rec.children[i] = c.ID
		t.nodes[c.ID] = &node{id: c.ID, parent: id, state: st}
	}
	return nil
}

// Collapse transitions an expanded record back to collapsed, dropping every
// descendant record from the table. Collapsing an already-collapsed item is
// a no-op and returns nil.
//
// Returns [ErrUnknownID] if the item has no record or [ErrNotExpandable] for
// leaves.
func (t *Tree) Collapse(id ID) error {
	rec, ok := t.nodes[id]
	if !ok {
		return ErrUnknownID
	}
	switch rec.state {
	case stateLeaf:
		return ErrNotExpandable
	case stateCollapsed:
		return nil
	}
	for _, c := range rec.children {
		t.deleteSubtree(c)
	}
	rec.state = stateCollapsed
	rec.children = nil
	return nil
}

// Remove deletes a record and its entire displayed subtree, unlinking it
// from its container's child list. It reports whether anything was removed;
// unknown identities are not an error.
func (t *Tree) Remove(id ID) bool {
	rec, ok := t.nodes[id]
	if !ok {
		return false
	}
	list := &t.roots
	if rec.parent != RootID {
		if p, ok := t.nodes[rec.parent]; ok {
			list = &p.children
		}
	}
	*list = slices.DeleteFunc(*list, func(c ID) bool { return c == id })
	t.deleteSubtree(id)
	return true
}

// deleteSubtree drops id and all recorded descendants from the table.
func (t *Tree) deleteSubtree(id ID) {
	rec, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range rec.children {
		t.deleteSubtree(c)
	}
	delete(t.nodes, id)
}

// Children returns the ordered child identities of an expanded item and
// true. For leaves, collapsed items and unknown identities it returns
// (nil, false) — "not materialized" and "cannot have children" both read as
// absence here; use [Tree.Expandable] to tell them apart. The returned slice
// is a read-only view.
func (t *Tree) Children(id ID) ([]ID, bool) {
	rec, ok := t.nodes[id]
	if !ok || rec.state != stateExpanded {
		return nil, false
	}
	return rec.children, true
}

// Expandable reports whether the item is recorded as able to have children
// (collapsed or expanded). Unknown identities report false.
func (t *Tree) Expandable(id ID) bool {
	rec, ok := t.nodes[id]
	return ok && rec.state != stateLeaf
}

// Expanded reports whether the item is currently expanded.
// Unknown identities report false.
func (t *Tree) Expanded(id ID) bool {
	rec, ok := t.nodes[id]
	return ok && rec.state == stateExpanded
}

// Lineage returns the ancestor chain of an item, root-first and including
// the item itself, by walking parent back-pointers. Returns (nil, false) for
// unknown identities. The root container is not part of the chain.
func (t *Tree) Lineage(id ID) ([]ID, bool) {
	if _, ok := t.nodes[id]; !ok {
		return nil, false
	}
	var chain []ID
	for cur := id; cur != RootID; {
		chain = append(chain, cur)
		rec, ok := t.nodes[cur]
		if !ok {
			break
		}
		cur = rec.parent
	}
	slices.Reverse(chain)
	return chain, true
}

// Descendants returns every recorded identity strictly below id, in
// depth-first order. Returns nil for leaves, collapsed items and unknown
// identities.
func (t *Tree) Descendants(id ID) []ID {
	rec, ok := t.nodes[id]
	if !ok {
		return nil
	}
	var out []ID
	var walk func(ID)
	walk = func(cur ID) {
		out = append(out, cur)
		if r, ok := t.nodes[cur]; ok {
			for _, c := range r.children {
				walk(c)
			}
		}
	}
	for _, c := range rec.children {
		walk(c)
	}
	return out
}

// Roots returns the ordered top-level identities as a read-only view.
func (t *Tree) Roots() []ID { return t.roots }

// Len returns the number of recorded items.
func (t *Tree) Len() int { return len(t.nodes) }

// Contains reports whether the identity has a record.
func (t *Tree) Contains(id ID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Parent returns the container of an item ([RootID] for top-level rows) and
// true, or ("", false) for unknown identities.
func (t *Tree) Parent(id ID) (ID, bool) {
	rec, ok := t.nodes[id]
	if !ok {
		return RootID, false
	}
	return rec.parent, true
}

// IndexOf returns the item's position within its container's child list and
// true, or (0, false) for unknown identities.
func (t *Tree) IndexOf(id ID) (int, bool) {
	rec, ok := t.nodes[id]
	if !ok {
		return 0, false
	}
	list := t.roots
	if rec.parent != RootID {
		if p, ok := t.nodes[rec.parent]; ok {
			list = p.children
		}
	}
	if i := slices.Index(list, id); i >= 0 {
		return i, true
	}
	return 0, false
}

// Validate checks table integrity and returns nil if consistent.
// It verifies three constraints:
//
//  1. Every identity in a child list has a record ([ErrDanglingChild])
//  2. Every record's parent back-pointer names the list containing it
//     ([ErrParentMismatch])
//  3. Every record is reachable from the root list ([ErrOrphanRecord])
//
// Reachability also rules out cycles in the back-pointer chain: a record
// participating in a cycle cannot be reached from the roots. Use this in
// tests and after bulk mutations that bypass the checked operations.
func (t *Tree) Validate() error {
	reached := make(map[ID]bool, len(t.nodes))
	var walk func(parent ID, list []ID) error
	walk = func(parent ID, list []ID) error {
		for _, id := range list {
			rec, ok := t.nodes[id]
			if !ok {
				return ErrDanglingChild
			}
			if rec.parent != parent {
				return ErrParentMismatch
			}
			if reached[id] {
				return ErrParentMismatch
			}
			reached[id] = true
			if err := walk(id, rec.children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(RootID, t.roots); err != nil {
		return err
	}
	if len(reached) != len(t.nodes) {
		return ErrOrphanRecord
	}
	return nil
}
