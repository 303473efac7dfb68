package dnd

import (
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/treeline/pkg/observability"
	"github.com/matzehuels/treeline/pkg/outline"
)

// DefaultFallbackDelay bounds how long a committed drop waits for the host
// widget's auto-expansion before the deferred reload is abandoned.
const DefaultFallbackDelay = 500 * time.Millisecond

// Resolver mediates drag-and-drop gestures for one outline source. It
// consults the shadow tree for ancestry and disclosure facts, defers the
// accept/deny/retarget decision to its [Policy], and overrides the policy
// wherever a placement would corrupt the tree.
//
// Gesture calls run on the widget's event thread; only the deferred-reload
// waiter is touched from a timer goroutine and is locked accordingly.
type Resolver struct {
	src    *outline.Source
	policy Policy
	read   ReadFunc

	// FallbackDelay overrides [DefaultFallbackDelay] when positive.
	FallbackDelay time.Duration

	mu      sync.Mutex
	pending *reloadWaiter
}

// reloadWaiter is the single-assignment token for one deferred reload.
type reloadWaiter struct {
	id    outline.ID
	timer *time.Timer
}

// New creates a resolver raising gestures against src. A nil policy denies
// every gesture; a nil read refuses every payload.
func New(src *outline.Source, policy Policy, read ReadFunc) *Resolver {
	return &Resolver{src: src, policy: policy, read: read}
}

// Propose materializes a gesture from raw drag payloads against the hovered
// container (nil for the root level). Payloads the resolver cannot read are
// filtered out; if nothing readable remains the gesture is refused.
func (r *Resolver) Propose(payloads []any, into *outline.Item, index int) (Target, bool) {
	var items []Dragged
	if r.read != nil {
		for _, p := range payloads {
			if d, ok := r.read(p); ok {
				items = append(items, d)
			}
		}
	}
	if len(items) == 0 {
		return Target{}, false
	}
	return Target{
		Items:      items,
		Into:       into,
		Index:      index,
		IsExpanded: r.src.IsExpanded,
	}, true
}

// Validate asks the policy about a placement and applies the structural
// guard: an accepted or redirected placement whose effective container sits
// at or below any dragged row is forced to a denial. Call it freely while
// the pointer moves; it mutates nothing.
func (r *Resolver) Validate(t Target) Validation {
	v, guarded := r.check(t)
	observability.Drop().OnValidate(v.Decision.String(), guarded)
	return v
}

// Commit finishes a gesture on release. The placement is validated once
// more, since the tree may have changed after the last pointer movement,
// and a denial aborts without touching the policy. Otherwise the policy
// commits against the effective target, with the index adjusted for
// same-container moves. A drop accepted into a currently-collapsed
// container arms the deferred reload described in the package
// documentation.
func (r *Resolver) Commit(t Target) bool {
	v, _ := r.check(t)
	if v.Decision == DecisionDeny {
		observability.Drop().OnCommit(false)
		return false
	}
	final := t
	final.Into, final.Index = v.effective(t)
	if v.Decision == DecisionMove {
		final.Index = r.shifted(final)
	}
	accepted := r.policy.Commit(final)
	if accepted && final.Into != nil && !r.src.IsExpanded(final.Into.ID) {
		r.arm(final.Into.ID)
	}
	observability.Drop().OnCommit(accepted)
	return accepted
}

// check runs policy validation plus the structural guard, reporting whether
// the guard overrode an acceptance.
func (r *Resolver) check(t Target) (Validation, bool) {
	if r.policy == nil || len(t.Items) == 0 {
		return Denied(), false
	}
	v := r.policy.Validate(t)
	if v.Decision == DecisionDeny {
		return Denied(), false
	}
	into, _ := v.effective(t)
	if !r.admissible(into, t.Items) {
		return Denied(), true
	}
	return v, false
}

// admissible reports whether dropping items into a container keeps the tree
// acyclic: no dragged identity may appear in the container's displayed
// lineage. The chain includes the container itself, so dropping a row onto
// itself fails the same walk. Containers the tree does not display have no
// displayed lineage and pass.
func (r *Resolver) admissible(into *outline.Item, items []Dragged) bool {
	if into == nil {
		return true
	}
	chain, ok := r.src.Lineage(into.ID)
	if !ok {
		return true
	}
	for _, d := range items {
		if slices.Contains(chain, d.Item.ID) {
			return false
		}
	}
	return true
}

// shifted compensates a same-container move for the removal that precedes
// the reinsert: taking the dragged row out shifts every later sibling down
// one, so a target index past the row's old position comes down by one. The
// shift keys off the first dragged row; items from outside the outline have
// no old position and shift nothing.
func (r *Resolver) shifted(t Target) int {
	if t.Index <= 0 {
		return t.Index
	}
	tree := r.src.Tree()
	first := t.Items[0].Item.ID
	parent, ok := tree.Parent(first)
	if !ok || parent != t.ContainerID() {
		return t.Index
	}
	if old, ok := tree.IndexOf(first); ok && t.Index > old {
		return t.Index - 1
	}
	return t.Index
}

// arm registers the one-shot reload waiter for id, replacing any previous
// waiter. The fallback timer abandons the registration if the expansion
// notification never arrives.
func (r *Resolver) arm(id outline.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		r.pending.timer.Stop()
	}
	w := &reloadWaiter{id: id}
	w.timer = time.AfterFunc(r.fallback(), func() { r.abandon(w) })
	r.pending = w
}

// abandon clears a waiter the expansion notification never reached.
func (r *Resolver) abandon(w *reloadWaiter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == w {
		r.pending = nil
	}
}

// ItemDidExpand is the host widget's expansion notification. If a deferred
// reload is armed for id, that single subtree is reloaded and the waiter
// disarmed; every other expansion passes through untouched. The waiter is
// one-shot: at most one reload per committed drop.
func (r *Resolver) ItemDidExpand(id outline.ID) {
	r.mu.Lock()
	w := r.pending
	if w == nil || w.id != id {
		r.mu.Unlock()
		return
	}
	w.timer.Stop()
	r.pending = nil
	r.mu.Unlock()

	view := r.src.View()
	view.BeginUpdates()
	view.Reload(id, true)
	view.EndUpdates()
}

func (r *Resolver) fallback() time.Duration {
	if r.FallbackDelay > 0 {
		return r.FallbackDelay
	}
	return DefaultFallbackDelay
}
