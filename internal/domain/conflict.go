package domain

// Overlaps reports whether two inclusive date ranges share at least one day.
// The comparison is the standard interval test s <= e' && s' <= e; boundary
// dates count as overlap (same-day turnaround is not allowed).
func Overlaps(a, b DateRange) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// FindConflict returns the first reservation in existing whose range overlaps
// the candidate, or nil. Callers choose the existing set: only CONFIRMED and
// ACTIVE reservations block (pending requests may stack on the same window;
// the owner picks the winner at approval time).
func FindConflict(candidate DateRange, existing []Reservation) *Reservation {
	for i := range existing {
		if Overlaps(candidate, existing[i].DateRange) {
			return &existing[i]
		}
	}
	return nil
}

// FindDuplicate returns the borrower's own pending request with exactly the
// candidate range, or nil. Pending requests from other borrowers may stack on
// the same window, but resubmitting an identical request is rejected.
func FindDuplicate(candidate DateRange, borrowerID int32, pending []Reservation) *Reservation {
	for i := range pending {
		p := &pending[i]
		if p.BorrowerID == borrowerID && p.Start.Equal(candidate.Start) && p.End.Equal(candidate.End) {
			return p
		}
	}
	return nil
}
