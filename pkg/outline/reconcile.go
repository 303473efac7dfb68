package outline

import (
	"slices"
	"time"

	"github.com/matzehuels/treeline/pkg/observability"
)

// ApplyOptions controls a reconciliation pass.
type ApplyOptions struct {
	// AssumeExpanded treats every expandable node as displayed: rows a
	// widget left collapsed are compared like expanded ones, and freshly
	// inserted expandable rows are recorded expanded and seeded from the
	// snapshot instead of starting collapsed. Meant for tests and headless
	// processing that want full-depth diffs without driving a real widget's
	// disclosure; a live widget should leave it off.
	AssumeExpanded bool
}

// applyStats counts the directives of one pass for the observability hooks.
type applyStats struct {
	inserts, removes, reloads int
}

// ApplySnapshot reconciles the displayed tree against a fresh snapshot with
// default options. See [Source.Apply].
func (s *Source) ApplySnapshot(roots []Item) { s.Apply(roots, ApplyOptions{}) }

// Apply reconciles the displayed tree against a fresh snapshot and emits the
// minimal insert/remove/reload directives to the view, bracketed by
// BeginUpdates/EndUpdates. Containers are processed top-down: each expanded
// container's child identities are diffed, removals and insertions emitted,
// the shadow record updated, and the pass recurses into children displayed
// both before and after. Collapsed subtrees are never compared — their data
// can change arbitrarily without producing a single directive until the user
// expands them.
//
// Apply never fails: identities the shadow tree has no record of are plain
// insertions, and re-applying an identical snapshot emits nothing.
func (s *Source) Apply(roots []Item, opts ApplyOptions) {
	start := time.Now()
	observability.Reconcile().OnApplyStart(len(roots))

	var st applyStats
	s.view.BeginUpdates()
	s.reconcile(RootID, roots, true, opts.AssumeExpanded, &st)
	s.view.EndUpdates()

	observability.Reconcile().OnApplyComplete(observability.ApplyStats{
		Inserts: st.inserts,
		Removes: st.removes,
		Reloads: st.reloads,
	}, time.Since(start))
}

// reconcile diffs one container. newKids is the snapshot's child list for
// parent; newExpandable is false when the snapshot says parent is now a
// leaf. The root container is always expandable and always expanded.
func (s *Source) reconcile(parent ID, newKids []Item, newExpandable, assume bool, st *applyStats) {
	oldExpandable, oldExpanded := false, false
	var oldIDs []ID
	if parent == RootID {
		oldExpandable, oldExpanded = true, true
		oldIDs = s.tree.roots
	} else if rec, ok := s.tree.nodes[parent]; ok {
		oldExpandable = rec.state != stateLeaf
		oldExpanded = rec.state == stateExpanded
		if oldExpanded {
			oldIDs = rec.children
		}
	}

	// A leaf staying a leaf: nothing recorded, nothing supplied.
	if !oldExpandable && !newExpandable {
		return
	}

	// Children of a closed container are never compared, unless the caller
	// assumed everything expanded. The one signal still worth a directive
	// is the category flipping (leaf <-> expandable), which changes how the
	// row itself draws.
	if !oldExpanded && !assume {
		if oldExpandable != newExpandable {
			st.reloads++
			s.view.Reload(parent, false)
			s.recategorize(parent, newExpandable)
		}
		return
	}

	newIDs := itemIDs(newKids)
	ops := Sequence(oldIDs, newIDs)
	if len(ops) > 0 || !slices.Equal(oldIDs, newIDs) || oldExpandable != newExpandable {
		st.reloads++
		s.view.Reload(parent, false)
	}

	oldSet := make(map[ID]bool, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = true
	}
	byID := make(map[ID]Item, len(newKids))
	for _, k := range newKids {
		byID[k.ID] = k
	}

	for _, op := range ops {
		switch op.Kind {
		case OpRemove:
			st.removes++
			s.view.RemoveRows(parent, op.Offset)
			s.forget(parent, op.ID)
			// A removed identity is not carried over, even when the same
			// pass re-inserts it at another offset.
			delete(oldSet, op.ID)
		case OpInsert:
			st.inserts++
			s.view.InsertRows(parent, op.Offset)
			s.adopt(parent, byID[op.ID], assume)
		}
	}

	// The snapshot's order becomes the displayed order.
	if parent == RootID {
		s.tree.roots = newIDs
	} else {
		rec := s.tree.nodes[parent]
		if newExpandable {
			rec.state = stateExpanded
			rec.children = newIDs
		} else {
			rec.state = stateLeaf
			rec.children = nil
		}
	}

	// Recurse into identities displayed both before and after, in snapshot
	// order. Their payloads are re-registered so row queries see fresh
	// values even when structure did not change. Children resolve only for
	// rows whose record is expanded — a collapsed row's callback must not
	// fire during reconciliation.
	for _, k := range newKids {
		if !oldSet[k.ID] {
			continue
		}
		s.items[k.ID] = k
		expandable := k.Expandable()
		var kidItems []Item
		if expandable && (assume || s.tree.Expanded(k.ID)) {
			kidItems, _ = k.Children()
		}
		s.reconcile(k.ID, kidItems, expandable, assume, st)
	}
}

// recategorize flips a closed record between leaf and collapsed when the
// snapshot changed the item's category.
func (s *Source) recategorize(id ID, expandable bool) {
	rec, ok := s.tree.nodes[id]
	if !ok {
		return
	}
	if expandable {
		rec.state = stateCollapsed
	} else {
		rec.state = stateLeaf
	}
	rec.children = nil
}

// forget handles a removal directive's record. The subtree is dropped from
// the table and the item registry — unless the identity has already been
// adopted by another container earlier in this pass (a cross-container
// relocation), in which case only the stale list entry goes away, and that
// happens when the parent's child list is replaced.
func (s *Source) forget(parent, id ID) {
	rec, ok := s.tree.nodes[id]
	if !ok || rec.parent != parent {
		return
	}
	for _, d := range s.tree.Descendants(id) {
		delete(s.items, d)
	}
	delete(s.items, id)
	s.tree.deleteSubtree(id)
}

// adopt creates a fresh record for an inserted child, overwriting any stale
// record the identity still holds from a container not yet processed in
// this pass. Fresh expandable records start collapsed; under assume they
// are seeded expanded from the snapshot — without directives, since rows
// below a freshly inserted row were never displayed.
func (s *Source) adopt(parent ID, it Item, assume bool) {
	if _, ok := s.tree.nodes[it.ID]; ok {
		for _, d := range s.tree.Descendants(it.ID) {
			delete(s.items, d)
		}
		s.tree.deleteSubtree(it.ID)
	}

	rec := &node{id: it.ID, parent: parent}
	s.tree.nodes[it.ID] = rec
	s.items[it.ID] = it

	switch {
	case !it.Expandable():
		rec.state = stateLeaf
	case assume:
		rec.state = stateExpanded
		kids, _ := it.Children()
		rec.children = make([]ID, len(kids))
		for i, k := range kids {
			rec.children[i] = k.ID
			s.adopt(it.ID, k, true)
		}
	default:
		rec.state = stateCollapsed
	}
}
