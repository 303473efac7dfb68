// Package dnd resolves drag-and-drop placements for an outline, combining
// a caller-supplied policy with structural guards the engine enforces
// unconditionally.
//
// # Overview
//
// A drag gesture proposes a placement: a set of dragged items, a candidate
// container, and a child index. The data owner knows whether that placement
// makes sense for its document; the engine knows the displayed structure.
// This package splits the decision accordingly: a [Policy] accepts, denies,
// or retargets the placement, and the [Resolver] overrides any acceptance
// that would break the tree.
//
// # Gesture Lifecycle
//
// The host widget drives one gesture through three calls:
//
//	target, ok := resolver.Propose(payloads, hovered, index)
//	v := resolver.Validate(target)   // repeatedly, as the pointer moves
//	accepted := resolver.Commit(target)  // once, on release
//
// [Resolver.Propose] materializes dragged items from raw payloads through
// the resolver's [ReadFunc]; unreadable payloads are dropped, and a gesture
// with nothing readable left is refused outright. [Resolver.Validate] is
// side-effect-free and may run on every pointer movement. [Resolver.Commit]
// re-validates and then hands the effective target to the policy, which
// performs the actual data mutation. Nothing persists between gestures.
//
// # Structural Guard
//
// Before any non-denied validation stands, the resolver walks the displayed
// lineage of the effective container. If a dragged item appears in that
// chain the placement would make an item its own ancestor, so the result is
// forced to [DecisionDeny] no matter what the policy said. Redirected
// targets are guarded the same way as proposed ones.
//
// # Redirects
//
// A policy can retarget a placement with [Redirect] instead of denying it:
// dropping onto a collapsed folder becomes "append inside that folder",
// dropping past the last root row becomes "append at the end". The resolver
// highlights, guards, and commits against the redirected slot, not the
// hovered one.
//
// # Index Adjustment
//
// Committing a move within one container first removes the dragged row,
// which shifts every later sibling down by one. When the target index lies
// past the row's old position the resolver decrements it before calling the
// policy, so the row lands where the user pointed. Cross-container moves
// need no adjustment.
//
// # Deferred Reload
//
// Dropping onto a collapsed container usually makes the host widget
// auto-expand it. The freshly materialized children must be reloaded once
// that expansion lands, so after such a commit the resolver arms a one-shot
// waiter: the host forwards the widget's expansion notification through
// [Resolver.ItemDidExpand], which reloads that single subtree and disarms.
// A fallback timer ([DefaultFallbackDelay]) disarms an orphaned waiter if
// the notification never arrives.
//
// # Related Packages
//
// The shadow tree and reconciliation live in [outline]; document-side
// placement rules for treeline's own files live in [doc].
//
// [outline]: github.com/matzehuels/treeline/pkg/outline
// [doc]: github.com/matzehuels/treeline/pkg/doc
package dnd
