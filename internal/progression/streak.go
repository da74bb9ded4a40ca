package progression

import (
	"time"

	"github.com/phantomapp/rewards/internal/domain"
)

// Streak days are UTC calendar days: a claim becomes eligible again at the
// next UTC midnight, and a missed day resets the count.

// DateUTC truncates an instant to its UTC calendar date.
func DateUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Eligible reports whether a daily claim is allowed today: never claimed, or
// last claimed strictly before today.
func Eligible(s domain.Streak, now time.Time) bool {
	if s.LastClaimDate == nil {
		return true
	}
	return DateUTC(*s.LastClaimDate).Before(DateUTC(now))
}

// ApplyReset zeroes the count when the user missed at least one full day
// since the last claim; a claim yesterday keeps the run alive.
func ApplyReset(s domain.Streak, now time.Time) domain.Streak {
	if s.LastClaimDate == nil {
		return s
	}
	gap := DateUTC(now).Sub(DateUTC(*s.LastClaimDate))
	if gap > 24*time.Hour {
		s.Count = 0
	}
	return s
}

// AmountFor looks up the coin amount for the current streak day. The weekly
// schedule cycles: day 7 pays like day 0.
func AmountFor(count int) int64 {
	if count < 0 {
		count = 0
	}
	return domain.DailyCoinSchedule[count%len(domain.DailyCoinSchedule)]
}
