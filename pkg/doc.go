// Package pkg provides the core libraries for Treeline outline browsing.
//
// # Overview
//
// Treeline keeps an expandable/collapsible tree of rows in sync with a host
// widget the way a native outline view does: a shadow record of what is on
// screen, minimal diffs against fresh snapshots, and drag-and-drop placement
// that cannot corrupt the tree. The pkg directory is organized into three
// main areas:
//
//  1. [outline] - The engine (shadow tree, reconciliation, placement, state)
//  2. [doc] - The outline document format and its placement policy
//  3. Supporting packages (errors, observability, buildinfo)
//
// # Architecture
//
// The typical data flow through Treeline:
//
//	Outline Document (JSON)
//	         ↓
//	    [doc] package (nodes, moves, snapshots)
//	         ↓
//	    [outline] package (diff against the shadow tree)
//	         ↓
//	    View directives (insert / remove / reload)
//	         ↓
//	    Host widget rows, or [outline/export] diagrams
//
// # Quick Start
//
// Populate a source and reconcile a changed snapshot:
//
//	import "github.com/matzehuels/treeline/pkg/outline"
//
//	// 1. Build the displayed tree
//	src := outline.NewSource(view)
//	src.Rebuild([]outline.Item{
//	    outline.NewBranch("docs", nil,
//	        outline.NewLeaf("readme", nil),
//	    ),
//	}, nil)
//
//	// 2. The user opens a folder
//	_ = src.ExpandItem("docs")
//
//	// 3. Apply a fresh snapshot; only the changed rows move
//	src.ApplySnapshot(newRoots)
//
// Guard a drop with the placement resolver:
//
//	res := dnd.New(src, policy, readPayload)
//	if target, ok := res.Propose(payloads, &folder, dnd.IndexNone); ok {
//	    if res.Validate(target).Decision != dnd.DecisionDeny {
//	        res.Commit(target)
//	    }
//	}
//
// # Main Packages
//
// ## Engine
//
// [outline] - The reconciliation engine. A [outline.Source] owns the shadow
// tree of displayed rows, answers the row queries a host widget asks
// (children, disclosure, lineage), and diffs fresh snapshots into minimal
// insert/remove/reload directives. Collapsed subtrees are never compared.
//
// [outline/dnd] - Drag-and-drop placement. A [dnd.Resolver] wraps a
// host-supplied policy with the structural guard that keeps a container from
// being dropped into its own subtree, and defers the post-drop reload of a
// collapsed container until the widget reports it expanded.
//
// [outline/state] - Disclosure persistence. Captures which folders are
// expanded and restores them when a document is reopened.
//
// [outline/export] - Renders the displayed tree: Graphviz DOT and SVG, PNG
// via rsvg-convert, and JSON row dumps.
//
// ## Documents
//
// [doc] - The outline document: a JSON tree of titled notes and folders with
// insert/remove/move editing, snapshot projection into engine items, and the
// [doc.DropPolicy] that validates and commits row drops against the
// document.
//
// ## Supporting Packages
//
// [errors] - Structured errors with machine-readable codes, used across the
// CLI and libraries.
//
// [observability] - Process-wide hooks the engine reports reconciliation
// stats and placement decisions through; hosts install their own sinks.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/outline/...      # Engine only
//	go test -run Example           # Examples only
//
// [outline]: https://pkg.go.dev/github.com/matzehuels/treeline/pkg/outline
// [outline/dnd]: https://pkg.go.dev/github.com/matzehuels/treeline/pkg/outline/dnd
// [outline/state]: https://pkg.go.dev/github.com/matzehuels/treeline/pkg/outline/state
// [outline/export]: https://pkg.go.dev/github.com/matzehuels/treeline/pkg/outline/export
// [doc]: https://pkg.go.dev/github.com/matzehuels/treeline/pkg/doc
// [errors]: https://pkg.go.dev/github.com/matzehuels/treeline/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/treeline/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/treeline/pkg/buildinfo
package pkg
