package domain

import "time"

// CheckAvailability decides whether a candidate range is structurally legal
// under the tool's scheduling policy, independent of other bookings. It is a
// pure function of (policy, range, now).
//
// Returns nil when legal, or a *PolicyError naming the rule broken:
//   - InvertedRange: end before start
//   - TooSoon: start earlier than today + AdvanceNoticeDays (equality is the
//     earliest legal day)
//   - TooLong: inclusive span exceeds MaxLoanDays
func CheckAvailability(tool *Tool, r DateRange, now time.Time) error {
	if r.End.Before(r.Start) {
		return newPolicyError(PolicyReasonInvertedRange, "end date %s is before start date %s",
			r.End.Format(DateLayout), r.Start.Format(DateLayout))
	}

	earliest := Today(now).AddDate(0, 0, int(tool.AdvanceNoticeDays))
	if r.Start.Before(earliest) {
		return newPolicyError(PolicyReasonTooSoon, "start date %s is earlier than the required %d day(s) notice (earliest %s)",
			r.Start.Format(DateLayout), tool.AdvanceNoticeDays, earliest.Format(DateLayout))
	}

	if days := r.Days(); days > tool.MaxLoanDays {
		return newPolicyError(PolicyReasonTooLong, "requested %d day(s) exceeds the %d day loan limit",
			days, tool.MaxLoanDays)
	}

	return nil
}
