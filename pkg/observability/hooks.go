// Package observability provides hooks for instrumenting the outline engine.
//
// The engine runs on a widget's event thread and stays free of logging and
// metrics dependencies; hosts that want visibility register hooks at startup
// and receive events about reconciliation passes and drag-and-drop
// decisions. The pattern:
//
//   - Hook interfaces per event category
//   - No-op default implementations
//   - Registration by the application, never by libraries
//
// Register hooks before the first engine operation:
//
//	func main() {
//	    observability.SetReconcileHooks(&logHooks{logger})
//	    // ... run application
//	}
//
// The engine emits events through the package-level accessors:
//
//	observability.Reconcile().OnApplyStart(rootCount)
//	// ... reconcile ...
//	observability.Reconcile().OnApplyComplete(stats, duration)
package observability

import (
	"sync"
	"time"
)

// ApplyStats summarizes the directives one reconciliation pass emitted.
type ApplyStats struct {
	Inserts int
	Removes int
	Reloads int
}

// ReconcileHooks receives events from snapshot reconciliation.
type ReconcileHooks interface {
	// OnApplyStart records the beginning of a pass and the snapshot's
	// top-level row count.
	OnApplyStart(rootCount int)

	// OnApplyComplete records a finished pass with its directive counts
	// and wall-clock duration.
	OnApplyComplete(stats ApplyStats, duration time.Duration)
}

// DropHooks receives events from drag-and-drop placement resolution.
type DropHooks interface {
	// OnValidate records one placement validation and its outcome.
	// guarded is true when the ancestry guard overrode the policy.
	OnValidate(decision string, guarded bool)

	// OnCommit records a commit attempt and whether the policy accepted it.
	OnCommit(accepted bool)
}

// NoopReconcileHooks is a no-op implementation of ReconcileHooks.
type NoopReconcileHooks struct{}

func (NoopReconcileHooks) OnApplyStart(int)                          {}
func (NoopReconcileHooks) OnApplyComplete(ApplyStats, time.Duration) {}

// NoopDropHooks is a no-op implementation of DropHooks.
type NoopDropHooks struct{}

func (NoopDropHooks) OnValidate(string, bool) {}
func (NoopDropHooks) OnCommit(bool)           {}

var (
	reconcileHooks ReconcileHooks = NoopReconcileHooks{}
	dropHooks      DropHooks      = NoopDropHooks{}
	hooksMu        sync.RWMutex
)

// SetReconcileHooks registers custom reconciliation hooks.
// Call once at application startup before the first Apply.
func SetReconcileHooks(h ReconcileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reconcileHooks = h
	}
}

// SetDropHooks registers custom drag-and-drop hooks.
// Call once at application startup before the first gesture.
func SetDropHooks(h DropHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dropHooks = h
	}
}

// Reconcile returns the registered reconciliation hooks.
func Reconcile() ReconcileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reconcileHooks
}

// Drop returns the registered drag-and-drop hooks.
func Drop() DropHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dropHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	reconcileHooks = NoopReconcileHooks{}
	dropHooks = NoopDropHooks{}
}
