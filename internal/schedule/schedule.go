package schedule

import (
	"time"

	"habit-sync/internal/dateutil"
	"habit-sync/internal/domain/entity"
)

// IsScheduled reports whether the habit is expected to be performed on the
// given date. Pure and O(1); it runs for every day of a week-range scan.
func IsScheduled(h *entity.Habit, date time.Time) bool {
	switch h.Frequency {
	case entity.FrequencyDaily:
		return true
	case entity.FrequencyCustom:
		return h.HasCustomDay(int(date.Weekday()))
	case entity.FrequencyWeekly:
		// Weekly habits recur on the weekday they were created
		return date.Weekday() == h.CreatedAt.Weekday()
	case entity.FrequencyOneTime:
		return dateutil.FormatDate(date) == h.TargetDate
	default:
		// Unrecognized frequencies fail closed
		return false
	}
}

// IsQualifying reports whether the completion counts as done for the habit:
// checkbox habits qualify by presence, numerical habits once the recorded
// value reaches the target.
func IsQualifying(h *entity.Habit, c *entity.Completion) bool {
	if c == nil {
		return false
	}
	if h.IsNumerical() {
		return c.Value >= h.TargetValue
	}
	return true
}
