// Package outline provides the reconciliation engine behind
// expandable/collapsible outline widgets.
//
// # Overview
//
// An outline widget displays a tree of rows, but at any moment it only shows
// the parts the user has disclosed. This package keeps a shadow record of
// exactly what the widget currently displays — which identities, in which
// order, under which parents, and which of them are expanded — and diffs new
// data snapshots against that record. The result is the minimal sequence of
// insert/remove/reload directives the widget needs to animate from the old
// state to the new one without rebuilding itself.
//
// The engine never touches row payloads during diffing: everything is keyed
// by stable identity ([ID]). Host data is wrapped in [Item] values carrying
// an identity plus an opaque payload, so any backing model can drive the
// widget as long as identities are unique and stable across snapshots.
//
// # Basic Usage
//
// Create a [Source] with the widget's [View] implementation, then hand it
// snapshots whenever the backing data changes:
//
//	src := outline.NewSource(view)
//	src.ApplySnapshot([]outline.Item{
//		outline.NewLeaf("readme", "README.md"),
//		outline.NewBranch("docs", "docs/",
//			outline.NewLeaf("guide", "guide.md"),
//		),
//	})
//
// The widget reports user disclosure through [Source.ExpandItem] and
// [Source.CollapseItem], and renders rows from [Source.NumberOfChildren],
// [Source.ChildAt], [Source.IsExpandable] and [Source.IsExpanded].
//
// # Shadow Tree
//
// [Tree] is the displayed-state record: a flat identity-keyed table of nodes
// in one of three states (leaf, collapsed, expanded) with parent
// back-pointers, so ancestry queries are pointer walks rather than searches.
// Collapsed nodes deliberately record no children — the engine never compares
// data the widget is not showing, which is what keeps reconciliation cheap on
// mostly-collapsed trees.
//
// # Directives
//
// Reconciliation emits directives to the host [View] between
// [View.BeginUpdates] and [View.EndUpdates] so the widget can coalesce them
// into a single visual transaction. Removal offsets index the old child
// sequence (emitted in descending order), insertion offsets the new one
// (ascending), matching the batch-update contract of native outline views.
// A structural change to a container additionally emits a reload of the
// container row itself, never of unaffected children.
//
// # Children Sources
//
// Items supply children in exactly two ways: an eager slice captured at
// construction ([NewBranch]) or a callback resolved the first time the engine
// reads it ([NewLazyBranch]). A leaf ([NewLeaf]) has no children source at
// all — the distinction between "cannot have children" and "expandable but
// currently childless" is preserved everywhere, since collapsing the two
// changes how the widget draws the disclosure control.
//
// # Concurrency
//
// Source and Tree instances are not safe for concurrent use. The engine is
// designed to run on the widget's event thread; callers must synchronize if
// anything else touches the same instance.
//
// # Related Packages
//
// The [dnd] subpackage resolves drag-and-drop placement against the shadow
// tree, including the ancestry guard that keeps gestures from dropping an
// item into its own subtree. The [state] subpackage persists the expanded-set
// across sessions, and [export] renders the displayed tree with graphviz.
//
// [dnd]: github.com/matzehuels/treeline/pkg/outline/dnd
// [state]: github.com/matzehuels/treeline/pkg/outline/state
// [export]: github.com/matzehuels/treeline/pkg/outline/export
package outline
