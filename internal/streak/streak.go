// Package streak implements the daily login streak calculator. All
// comparisons are calendar-date only, in UTC, so the result does not
// depend on the time of day a user logs in.
package streak

import "time"

// Result is the outcome of applying a login event to a streak
type Result struct {
	Streak    int
	LastLogin time.Time

	// Anomaly is set when the stored last login is in the future
	// (clock skew). The streak is left unchanged; callers should log it.
	Anomaly bool
}

// Update computes the new streak for a login happening at now.
//
//   - no prior login: streak starts at 1
//   - same day: streak unchanged (at most one count per day)
//   - exactly one day later: streak + 1
//   - more than one day later: streak resets to 1
//   - last login in the future: streak unchanged, flagged as anomaly
func Update(current int, lastLogin *time.Time, now time.Time) Result {
	result := Result{Streak: current, LastLogin: now}

	if lastLogin == nil {
		result.Streak = 1
		return result
	}

	today := truncateToDay(now)
	lastDay := truncateToDay(*lastLogin)

	switch days := daysBetween(lastDay, today); {
	case days == 0:
		// Already counted today
	case days == 1:
		result.Streak = current + 1
	case days > 1:
		result.Streak = 1
	default:
		// lastLogin is after now; keep the stored value rather than
		// corrupt the streak
		result.Anomaly = true
	}

	return result
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
