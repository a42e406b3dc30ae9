package streak

import (
	"sort"
	"time"

	"habit-sync/internal/dateutil"
	"habit-sync/internal/domain/entity"
	"habit-sync/internal/schedule"
)

// maxLookback bounds the backward walk
const maxLookback = 1000

// Calculate derives the habit's current streak from its completion history,
// walking backward from today. Days the habit is not scheduled are skipped
// without breaking the run, and an unfinished today does not break it
// either; the user still has the rest of the day. Only qualifying
// completions count, so a numerical habit below target is treated as absent.
func Calculate(h *entity.Habit, completions []*entity.Completion, now time.Time) int {
	qualifying := qualifyingDates(h, completions)
	if len(qualifying) == 0 {
		return 0
	}

	today := dateutil.StartOfDay(now)
	current := today
	count := 0

	for i := 0; i < maxLookback; i++ {
		if !schedule.IsScheduled(h, current) {
			current = current.AddDate(0, 0, -1)
			continue
		}

		dateStr := dateutil.FormatDate(current)

		// Today without a completion is not a break yet
		if current.Equal(today) && !qualifying[dateStr] {
			current = current.AddDate(0, 0, -1)
			continue
		}

		if !qualifying[dateStr] {
			break
		}

		count++
		current = current.AddDate(0, 0, -1)
	}

	return count
}

// Longest returns the longest historical run of scheduled days with
// qualifying completions.
func Longest(h *entity.Habit, completions []*entity.Completion) int {
	qualifying := qualifyingDates(h, completions)
	if len(qualifying) == 0 {
		return 0
	}

	dates := make([]string, 0, len(qualifying))
	for d := range qualifying {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var longest, current int
	var last time.Time

	for _, dateStr := range dates {
		date, err := dateutil.ParseDate(dateStr, time.UTC)
		if err != nil {
			continue
		}
		if !schedule.IsScheduled(h, date) {
			continue
		}

		if current == 0 {
			current = 1
			last = date
			continue
		}

		// The next scheduled day after the previous completion; a custom
		// schedule always has one within a week
		expected := last.AddDate(0, 0, 1)
		for i := 0; i < 7 && !schedule.IsScheduled(h, expected); i++ {
			expected = expected.AddDate(0, 0, 1)
		}

		if date.Equal(expected) {
			current++
		} else {
			if current > longest {
				longest = current
			}
			current = 1
		}
		last = date
	}

	if current > longest {
		longest = current
	}
	return longest
}

// qualifyingDates collapses the history into the set of dates that hold a
// qualifying completion
func qualifyingDates(h *entity.Habit, completions []*entity.Completion) map[string]bool {
	dates := make(map[string]bool, len(completions))
	for _, c := range completions {
		if c == nil || c.Date == "" {
			continue
		}
		if schedule.IsQualifying(h, c) {
			dates[c.Date] = true
		}
	}
	return dates
}
