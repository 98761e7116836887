package insights

import "time"

// NextPayoutDate returns when the next automatic payout runs, or nil when
// auto payout is disabled or misconfigured. If this month's payout day has
// not passed yet it schedules for the current month, otherwise the next one;
// December rolls over into January of the following year.
func NextPayoutDate(enabled bool, dayOfMonth int, now time.Time) *time.Time {
	if !enabled || dayOfMonth <= 0 {
		return nil
	}

	year, month := now.Year(), now.Month()
	if now.Day() >= dayOfMonth {
		if month == time.December {
			month = time.January
			year++
		} else {
			month++
		}
	}

	next := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, now.Location())
	return &next
}
