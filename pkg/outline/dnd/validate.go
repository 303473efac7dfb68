package dnd

import "github.com/matzehuels/treeline/pkg/outline"

// Decision is the outcome class of validating one placement.
type Decision int

const (
	// DecisionDeny rejects the placement. The widget shows no highlight and
	// commit never runs.
	DecisionDeny Decision = iota
	// DecisionCopy accepts the placement as a copy; the originals stay.
	DecisionCopy
	// DecisionMove accepts the placement as a move.
	DecisionMove
)

// String returns the lowercase name of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionCopy:
		return "copy"
	case DecisionMove:
		return "move"
	default:
		return "deny"
	}
}

// Validation is a policy's answer to a proposed placement. The zero value
// denies.
type Validation struct {
	Decision Decision

	// Retargeted redirects the placement to Into at Index instead of the
	// proposed slot. Into nil retargets to the root level.
	Retargeted bool
	Into       *outline.Item
	Index      int
}

// Denied rejects the placement.
func Denied() Validation { return Validation{} }

// Accept approves the placement exactly where it was proposed.
func Accept(d Decision) Validation { return Validation{Decision: d} }

// Redirect approves the placement but moves it to a different slot, for
// example turning a drop onto a collapsed folder into an append inside it.
// A nil into retargets to the root level.
func Redirect(d Decision, into *outline.Item, index int) Validation {
	return Validation{Decision: d, Retargeted: true, Into: into, Index: index}
}

// effective returns the container and index the gesture actually resolves
// to: the redirected slot when the validation retargeted, the proposed one
// otherwise.
func (v Validation) effective(t Target) (*outline.Item, int) {
	if v.Retargeted {
		return v.Into, v.Index
	}
	return t.Into, t.Index
}
