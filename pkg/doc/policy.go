package doc

import (
	"github.com/matzehuels/treeline/pkg/outline"
	"github.com/matzehuels/treeline/pkg/outline/dnd"
)

// ReadPayload returns the drag-read function for a document: payloads of
// type [outline.ID] or string name a document row, a *[Node] payload
// carries an item in from outside. Anything else is unreadable.
func ReadPayload(d *Document) dnd.ReadFunc {
	return func(payload any) (dnd.Dragged, bool) {
		switch p := payload.(type) {
		case outline.ID:
			return draggedRow(d, string(p))
		case string:
			return draggedRow(d, p)
		case *Node:
			if p == nil {
				return dnd.Dragged{}, false
			}
			return dnd.Dragged{Item: nodeItem(p), Source: dnd.SourceExternal}, true
		default:
			return dnd.Dragged{}, false
		}
	}
}

func draggedRow(d *Document, id string) (dnd.Dragged, bool) {
	n := d.Find(id)
	if n == nil {
		return dnd.Dragged{}, false
	}
	return dnd.Dragged{Item: nodeItem(n), Source: dnd.SourceOutline}, true
}

func nodeItem(n *Node) outline.Item {
	if n.Folder {
		return outline.NewBranch(outline.ID(n.ID), n, itemize(n.Children)...)
	}
	return outline.NewLeaf(outline.ID(n.ID), n)
}

// DropPolicy is the document's placement policy. Rows dragged from the
// outline move; foreign nodes dragged in from outside are copied in with
// fresh identities; gestures mixing the two are denied. Only folders and
// the top level accept children, and a drop landing on a container row is
// redirected to an append inside it. The structural cycle guard runs in the
// resolver as well; the policy checks the document so a denial never
// depends on display state alone.
type DropPolicy struct {
	Doc *Document
}

// Validate decides one placement. See [DropPolicy] for the rules.
func (p DropPolicy) Validate(t dnd.Target) dnd.Validation {
	if p.Doc == nil || len(t.Items) == 0 {
		return dnd.Denied()
	}
	decision, ok := p.classify(t)
	if !ok {
		return dnd.Denied()
	}

	if t.Into != nil {
		container := p.Doc.Find(string(t.Into.ID))
		if container == nil || !container.Folder {
			return dnd.Denied()
		}
		for _, item := range t.Items {
			if p.Doc.Contains(string(item.Item.ID), container.ID) {
				return dnd.Denied()
			}
		}
		if t.Index == dnd.IndexNone {
			at := len(container.Children)
			if decision == dnd.DecisionMove && p.noopSlot(t.Items, container.ID, at) {
				return dnd.Denied()
			}
			return dnd.Redirect(decision, t.Into, at)
		}
	} else if t.Index == dnd.IndexNone {
		at := len(p.Doc.Roots)
		if decision == dnd.DecisionMove && p.noopSlot(t.Items, "", at) {
			return dnd.Denied()
		}
		return dnd.Redirect(decision, nil, at)
	}

	if decision == dnd.DecisionMove && p.noopSlot(t.Items, string(t.ContainerID()), t.Index) {
		return dnd.Denied()
	}
	return dnd.Accept(decision)
}

// classify maps a gesture to its decision: move for rows of this document,
// copy for foreign nodes. Gestures mixing the two kinds, or naming rows the
// document no longer holds, report not-ok.
func (p DropPolicy) classify(t dnd.Target) (dnd.Decision, bool) {
	external := 0
	for _, item := range t.Items {
		switch item.Source {
		case dnd.SourceExternal:
			external++
		default:
			if p.Doc.Find(string(item.Item.ID)) == nil {
				return dnd.DecisionDeny, false
			}
		}
	}
	switch external {
	case 0:
		return dnd.DecisionMove, true
	case len(t.Items):
		return dnd.DecisionCopy, true
	default:
		return dnd.DecisionDeny, false
	}
}

// Commit applies the placement to the document, landing dragged rows in
// consecutive slots. Moves relocate the rows; copies insert fresh-identity
// clones, leaving the originals with their owner. A failed mutation aborts
// and reports the drop rejected.
func (p DropPolicy) Commit(t dnd.Target) bool {
	if p.Doc == nil || len(t.Items) == 0 {
		return false
	}
	decision, ok := p.classify(t)
	if !ok {
		return false
	}
	parentID := string(t.ContainerID())
	index := t.Index
	for _, item := range t.Items {
		var err error
		if decision == dnd.DecisionCopy {
			n, isNode := item.Item.Value.(*Node)
			if !isNode {
				return false
			}
			err = p.Doc.Insert(clone(n), parentID, index)
		} else {
			err = p.Doc.Move(string(item.Item.ID), parentID, index)
		}
		if err != nil {
			return false
		}
		index++
	}
	return true
}

// clone copies a node subtree with fresh identities, so a copied-in node
// can never collide with rows the document already holds.
func clone(n *Node) *Node {
	c := NewNode(n.Title, n.Folder)
	for _, child := range n.Children {
		c.Children = append(c.Children, clone(child))
	}
	return c
}

// noopSlot reports whether a single-row move into containerID at index
// lands back beside itself: the gap directly before or directly after the
// row's current position. Such a drop would reorder nothing, so it is
// denied and the widget shows no highlight.
func (p DropPolicy) noopSlot(items []dnd.Dragged, containerID string, index int) bool {
	if len(items) != 1 {
		return false
	}
	id := string(items[0].Item.ID)
	parent, ok := p.Doc.Parent(id)
	if !ok {
		return false
	}
	parentID := ""
	if parent != nil {
		parentID = parent.ID
	}
	if parentID != containerID {
		return false
	}
	cur := p.Doc.IndexOf(id)
	return index == cur || index == cur+1
}
