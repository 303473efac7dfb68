package dnd

import "github.com/matzehuels/treeline/pkg/outline"

// SourceKind classifies where a dragged item came from.
type SourceKind int

const (
	// SourceOutline marks a row dragged from the outline itself.
	SourceOutline SourceKind = iota
	// SourceExternal marks an item dragged in from outside the widget.
	SourceExternal
)

// IndexNone marks a drop landing on the container itself rather than at a
// gap between two of its children. Policies usually turn it into an append
// via [Redirect].
const IndexNone = -1

// Dragged is one item of a gesture together with its origin.
type Dragged struct {
	Item   outline.Item
	Source SourceKind
}

// ReadFunc materializes one raw drag payload into a [Dragged] item. It
// returns false for payloads it cannot read; those are filtered out of the
// gesture by [Resolver.Propose].
type ReadFunc func(payload any) (Dragged, bool)

// Target describes one candidate placement: what is being dragged, which
// container it would land in (nil for the root level), and at which child
// index. A Target lives for a single gesture.
type Target struct {
	Items []Dragged
	Into  *outline.Item
	Index int

	// IsExpanded reports live disclosure state. [Resolver.Propose] wires it
	// to the outline; leave it nil only when the answer does not matter.
	IsExpanded func(outline.ID) bool
}

// ContainerID returns the identity of the candidate container, [outline.RootID]
// for root-level placements.
func (t Target) ContainerID() outline.ID {
	if t.Into == nil {
		return outline.RootID
	}
	return t.Into.ID
}

// Expanded reports whether the candidate container is currently disclosed.
// The root level always is.
func (t Target) Expanded() bool {
	if t.Into == nil {
		return true
	}
	return t.IsExpanded != nil && t.IsExpanded(t.Into.ID)
}

// IDs returns the dragged identities in gesture order.
func (t Target) IDs() []outline.ID {
	ids := make([]outline.ID, len(t.Items))
	for i, d := range t.Items {
		ids[i] = d.Item.ID
	}
	return ids
}
