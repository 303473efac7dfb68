package outline

// ID is the stable identity of an outline item. Identities must be unique
// within a snapshot and stable across snapshots — they are the only thing the
// engine compares. The empty string is reserved: it denotes the root
// container in parent positions and is never a valid item identity.
type ID string

// RootID denotes the invisible root container. It is used as the parent of
// top-level rows in [View] directives and in [Tree.Add].
const RootID ID = ""

// Item wraps one row of host data: a stable identity plus an opaque payload
// the engine never inspects. Items also carry their children source, which is
// how a snapshot describes structure without forcing eager construction of
// the whole tree.
//
// Construct items with [NewLeaf], [NewBranch] or [NewLazyBranch]; the zero
// value is a leaf with an empty (invalid) identity.
type Item struct {
	ID    ID
	Value any

	src childrenSource
}

// childrenSource is the two-variant supply of an item's children.
// A nil source marks a leaf.
type childrenSource interface {
	resolve() []Item
}

// eagerChildren is the accessor variant: a concrete slice captured at
// construction time.
type eagerChildren struct {
	kids []Item
}

func (e eagerChildren) resolve() []Item { return e.kids }

// lazyChildren is the callback variant: resolved the first time the engine
// reads the node's children, then memoized so repeated reads within one
// snapshot see one stable list.
type lazyChildren struct {
	fn   func() []Item
	done bool
	kids []Item
}

func (l *lazyChildren) resolve() []Item {
	if !l.done {
		l.kids = l.fn()
		l.done = true
	}
	return l.kids
}

// NewLeaf creates an item that can never have children. Leaf rows render no
// disclosure control and reject expansion.
func NewLeaf(id ID, value any) Item {
	return Item{ID: id, Value: value}
}

// NewBranch creates an expandable item with an eagerly supplied child list.
// A branch with no children is still expandable — it renders a disclosure
// control and simply discloses nothing. This is a different category from
// [NewLeaf] and the engine preserves the distinction end to end.
func NewBranch(id ID, value any, children ...Item) Item {
	return Item{ID: id, Value: value, src: eagerChildren{kids: children}}
}

// NewLazyBranch creates an expandable item whose children are produced by fn
// the first time the engine needs them. fn must not return items with empty
// or duplicate identities. A nil fn yields an expandable item with no
// children.
func NewLazyBranch(id ID, value any, fn func() []Item) Item {
	if fn == nil {
		return NewBranch(id, value)
	}
	return Item{ID: id, Value: value, src: &lazyChildren{fn: fn}}
}

// Expandable reports whether the item can have children, regardless of
// whether it currently has any.
func (it Item) Expandable() bool { return it.src != nil }

// Children resolves and returns the item's children. The boolean mirrors
// [Item.Expandable]: leaves return (nil, false), expandable items return
// their (possibly empty) child list and true. Resolution is memoized for the
// callback variant, so calling Children repeatedly is cheap.
func (it Item) Children() ([]Item, bool) {
	if it.src == nil {
		return nil, false
	}
	return it.src.resolve(), true
}

// itemIDs extracts the identity from each item in order.
func itemIDs(items []Item) []ID {
	ids := make([]ID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
