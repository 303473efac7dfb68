package outline

// View is the directive sink a host widget implements. The engine calls it
// from [Source.Apply] and related operations, always between BeginUpdates
// and EndUpdates so the widget can coalesce a whole reconciliation pass into
// one visual transaction.
//
// Offsets follow batch-update semantics: removals index the child sequence
// as it was before the pass (and arrive in descending order per parent),
// insertions index the sequence being built (ascending). parent is [RootID]
// for top-level rows.
type View interface {
	// BeginUpdates opens a directive batch.
	BeginUpdates()
	// EndUpdates closes the batch; the widget applies or animates it now.
	EndUpdates()
	// InsertRows inserts one row at offset under parent.
	InsertRows(parent ID, offset int)
	// RemoveRows removes one row at offset under parent.
	RemoveRows(parent ID, offset int)
	// Reload refreshes the row for parent itself — its disclosure control,
	// child count badge, or whatever else depends on container structure.
	// With children true the widget must also re-query and redraw the rows
	// below it; reconciliation only uses the false form.
	Reload(parent ID, children bool)
}

// nullView discards all directives. It backs a Source constructed without a
// view, which is useful in tests and headless processing.
type nullView struct{}

func (nullView) BeginUpdates()      {}
func (nullView) EndUpdates()        {}
func (nullView) InsertRows(ID, int) {}
func (nullView) RemoveRows(ID, int) {}
func (nullView) Reload(ID, bool)    {}

var _ View = nullView{}

// Source is the data-source facade a host widget talks to. It owns the
// shadow [Tree], an identity-keyed registry of the [Item] values currently
// displayed, and the widget's [View]. Snapshots go in through
// [Source.Apply]; row queries and disclosure changes come back through the
// remaining methods.
//
// Source is not safe for concurrent use; run it on the widget's event
// thread.
type Source struct {
	tree  *Tree
	items map[ID]Item
	view  View
}

// NewSource creates an empty source emitting directives to view.
// A nil view discards directives.
func NewSource(view View) *Source {
	if view == nil {
		view = nullView{}
	}
	return &Source{
		tree:  NewTree(),
		items: make(map[ID]Item),
		view:  view,
	}
}

// Tree exposes the shadow tree for queries — lineage walks for drag
// validation, the expanded set for persistence. Treat it as read-only:
// mutating it directly bypasses the item registry.
func (s *Source) Tree() *Tree { return s.tree }

// View returns the directive sink the source was created with.
func (s *Source) View() View { return s.view }

// Item returns the displayed item for an identity and true, or the zero
// item and false if the identity is not currently displayed.
func (s *Source) Item(id ID) (Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// NumberOfChildren returns the displayed child count of a container:
// the top-level count for [RootID], the child list length for expanded
// items, and 0 for everything else.
func (s *Source) NumberOfChildren(parent ID) int {
	if parent == RootID {
		return len(s.tree.roots)
	}
	kids, ok := s.tree.Children(parent)
	if !ok {
		return 0
	}
	return len(kids)
}

// ChildAt returns the displayed item at index under parent.
func (s *Source) ChildAt(parent ID, index int) (Item, bool) {
	list := s.tree.roots
	if parent != RootID {
		kids, ok := s.tree.Children(parent)
		if !ok {
			return Item{}, false
		}
		list = kids
	}
	if index < 0 || index >= len(list) {
		return Item{}, false
	}
	return s.Item(list[index])
}

// IsExpandable reports whether the identity is displayed and can have
// children.
func (s *Source) IsExpandable(id ID) bool { return s.tree.Expandable(id) }

// IsExpanded reports whether the identity is displayed and expanded.
func (s *Source) IsExpanded(id ID) bool { return s.tree.Expanded(id) }

// Lineage returns the displayed ancestor chain of an item, root-first and
// including the item itself.
func (s *Source) Lineage(id ID) ([]ID, bool) { return s.tree.Lineage(id) }

// ExpandItem materializes an item's children in response to the user
// disclosing its row. The children come from the item's own source, resolved
// now; the shadow tree gains a record per child. Expanding an expanded item
// is a no-op.
//
// Returns [ErrUnknownID] if the identity is not displayed or
// [ErrNotExpandable] for leaves.
func (s *Source) ExpandItem(id ID) error {
	it, ok := s.items[id]
	if !ok {
		return ErrUnknownID
	}
	if s.tree.Expanded(id) {
		return nil
	}
	kids, ok := it.Children()
	if !ok {
		return ErrNotExpandable
	}
	entries := make([]Child, len(kids))
	for i, k := range kids {
		entries[i] = Child{ID: k.ID, Leaf: !k.Expandable()}
	}
	if err := s.tree.Expand(id, entries); err != nil {
		return err
	}
	for _, k := range kids {
		s.items[k.ID] = k
	}
	return nil
}

// CollapseItem drops an item's materialized children in response to the
// user closing its row. Descendant records and their registered items are
// forgotten; the item itself stays displayed and expandable. Collapsing a
// collapsed item is a no-op.
func (s *Source) CollapseItem(id ID) error {
	for _, d := range s.tree.Descendants(id) {
		delete(s.items, d)
	}
	return s.tree.Collapse(id)
}

// Rebuild replaces all displayed state from a snapshot in one pass,
// bypassing diffing: the shadow tree is rebuilt with [Build] and the widget
// told to reload everything. Use it for initial population or when restoring
// a persisted disclosure set; use [Source.Apply] for everything after that.
func (s *Source) Rebuild(roots []Item, expanded func(ID) bool) {
	s.tree = Build(roots, expanded)
	s.items = make(map[ID]Item, s.tree.Len())
	s.register(roots)
	s.view.BeginUpdates()
	s.view.Reload(RootID, true)
	s.view.EndUpdates()
}

// register records items for every identity the shadow tree materialized:
// the items themselves always, their children only through expanded
// containers.
func (s *Source) register(items []Item) {
	for _, it := range items {
		s.items[it.ID] = it
		if !s.tree.Expanded(it.ID) {
			continue
		}
		if kids, ok := it.Children(); ok {
			s.register(kids)
		}
	}
}
