package outline

import "slices"

// OpKind distinguishes the two directive-producing edit operations.
// Reconciliation only ever inserts and removes rows; everything else a
// widget does (moves, reorders) is expressed as a remove+insert pair.
type OpKind int

const (
	// OpRemove removes the row at Offset in the old child sequence.
	OpRemove OpKind = iota
	// OpInsert inserts a row at Offset in the new child sequence.
	OpInsert
)

// Op is one step of a minimal edit script produced by [Sequence].
type Op struct {
	Kind   OpKind
	ID     ID
	Offset int // old-sequence offset for removals, new-sequence offset for insertions
}

// Sequence computes a minimal edit script transforming old into new using
// insertions and removals only. Removals come first in descending old-sequence
// offsets, followed by insertions in ascending new-sequence offsets, so
// applying the ops in emitted order — each offset taken against the list as
// it stands — yields exactly new.
//
// Identities present in new but absent from old are plain insertions; nothing
// is ever an error. Identities must be unique within each list; duplicates
// make "minimal" meaningless and are a caller bug.
//
// The script is built from a longest-common-subsequence table in O(len(old) *
// len(new)) time and space. Child lists are at most one container's visible
// rows, so the quadratic bound is not a concern in practice.
func Sequence(old, new []ID) []Op {
	if slices.Equal(old, new) {
		return nil
	}
	n, m := len(old), len(new)

	// lcs[i][j] is the LCS length of old[:i] and new[:j].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if old[i-1] == new[j-1] {
				lcs[i][j] = lcs[i-1][j-1] + 1
			} else {
				lcs[i][j] = max(lcs[i-1][j], lcs[i][j-1])
			}
		}
	}

	// Walk back from (n, m). The backward walk naturally yields removals in
	// descending old offsets and insertions in descending new offsets; the
	// insertions are reversed before returning.
	var removes, inserts []Op
	for i, j := n, m; i > 0 || j > 0; {
		switch {
		case i > 0 && j > 0 && old[i-1] == new[j-1]:
			i--
			j--
		case j > 0 && (i == 0 || lcs[i][j-1] >= lcs[i-1][j]):
			inserts = append(inserts, Op{Kind: OpInsert, ID: new[j-1], Offset: j - 1})
			j--
		default:
			removes = append(removes, Op{Kind: OpRemove, ID: old[i-1], Offset: i - 1})
			i--
		}
	}
	slices.Reverse(inserts)
	return append(removes, inserts...)
}
