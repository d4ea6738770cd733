package progress

import "time"

// NextStreak derives the streak after an event at now.
//
// When completing is false the call is a read and prev is returned. When a
// lesson is being completed, the calendar-day distance between now and
// prevCompletion (both in now's location) decides: same day keeps prev, the
// next day extends it, and any longer gap starts over at 1. A first-ever
// completion is 1. A previous completion dated after today (clock skew,
// backdated writes) counts as the same day.
func NextStreak(prev int, prevCompletion *time.Time, completing bool, now time.Time) int {
	if !completing {
		return prev
	}
	if prevCompletion == nil {
		return 1
	}

	switch diff := dayNumber(now) - dayNumber(prevCompletion.In(now.Location())); {
	case diff <= 0:
		return prev
	case diff == 1:
		return prev + 1
	default:
		return 1
	}
}

// dayNumber counts calendar days since the epoch for t's local date. The
// date is re-anchored at UTC midnight so DST transitions do not skew it.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
