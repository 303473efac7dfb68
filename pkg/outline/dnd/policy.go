package dnd

// Policy is the data owner's side of the placement protocol. Validate runs
// continuously while the pointer moves and must be free of side effects; the
// same target always gets the same answer. Commit runs once on release,
// after a non-denied validation, performs the actual data mutation, and
// reports whether the drop was accepted.
//
// A resolver without a policy denies every gesture.
type Policy interface {
	Validate(t Target) Validation
	Commit(t Target) bool
}
