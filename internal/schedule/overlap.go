// Package schedule holds the date-window arithmetic shared by the assignment
// write path and the read-only availability queries. Both must agree on what
// "overlap" means, so the predicate lives here and nowhere else.
package schedule

import "time"

// Window is a closed date interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two closed intervals share at least one day.
// Boundaries are inclusive: a tour returning on the day another departs
// still counts as a conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// OverlapsWindow is Overlaps against a Window value.
func (w Window) OverlapsWindow(other Window) bool {
	return Overlaps(w.Start, w.End, other.Start, other.End)
}

// FirstConflict returns the index of the first window in existing that
// overlaps the candidate, or -1 when the candidate is free.
func FirstConflict(candidate Window, existing []Window) int {
	for i, w := range existing {
		if candidate.OverlapsWindow(w) {
			return i
		}
	}
	return -1
}
