package entity

import "time"

// Completion records that a user performed a habit on a specific calendar
// date. At most one logical record exists per (HabitID, UserID, Date);
// removing a completion removes the record entirely.
type Completion struct {
	ID      string
	HabitID string
	UserID  string

	// Date in format "YYYY-MM-DD", in the user's local calendar
	Date string

	// Value holds cumulative progress for numerical habits. Checkbox
	// completions store 1; their presence alone marks the habit done.
	// A value <= 0 is equivalent to absence and is never stored.
	Value float64

	// Store-assigned write time, used for feed ordering
	Timestamp time.Time
}
