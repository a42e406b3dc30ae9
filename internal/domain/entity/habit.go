package entity

import "time"

// Frequency represents how often a habit recurs
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"   // Recurs on the weekday the habit was created
	FrequencyCustom  Frequency = "custom"   // Recurs on an explicit set of weekdays
	FrequencyOneTime Frequency = "one-time" // Scheduled for a single target date
)

// CompletionType represents how a habit is marked done
type CompletionType string

const (
	CompletionTypeCheckbox  CompletionType = "checkbox"
	CompletionTypeNumerical CompletionType = "numerical"
)

// SyncStatus tracks where a habit sits in the optimistic-create protocol
type SyncStatus string

const (
	// SyncStatusConfirmed means the habit carries its authoritative repository-assigned ID
	SyncStatusConfirmed SyncStatus = "confirmed"
	// SyncStatusPending means the habit carries a temporary local ID while the remote create is in flight
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusFailed means the remote create failed; the entry is kept so the user's input is not lost
	SyncStatusFailed SyncStatus = "sync_failed"
)

// Habit represents a user's habit
type Habit struct {
	ID     string
	UserID string

	Title string

	// Schedule configuration
	Frequency  Frequency
	CustomDays []int  // Weekday indices, 0=Sunday; required non-empty for custom frequency
	TargetDate string // "YYYY-MM-DD"; required for one-time frequency

	// Completion configuration
	CompletionType CompletionType
	TargetValue    float64 // Required positive for numerical habits
	Unit           string  // Required non-empty for numerical habits

	// Gates visibility in the public feed and profile
	IsPublic bool

	// CurrentStreak is a cached projection of completion history. It is
	// updated heuristically on toggle and reconciled by the periodic
	// streak verification pass.
	CurrentStreak     int
	LastCompletedDate string

	// Reminder metadata, consumed outside this core
	HasReminder  bool
	ReminderTime string

	// Local-only optimistic sync state, never persisted remotely
	SyncStatus SyncStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNumerical returns true if the habit tracks numeric progress
func (h *Habit) IsNumerical() bool {
	return h.CompletionType == CompletionTypeNumerical
}

// IsOneTime returns true if the habit is scheduled for a single date
func (h *Habit) IsOneTime() bool {
	return h.Frequency == FrequencyOneTime
}

// HasCustomDay returns true if weekday (0=Sunday) is in the habit's custom days
func (h *Habit) HasCustomDay(weekday int) bool {
	for _, d := range h.CustomDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// HabitDraft is the caller-supplied input for creating a habit
type HabitDraft struct {
	Title          string
	Frequency      Frequency
	CustomDays     []int
	TargetDate     string
	CompletionType CompletionType
	TargetValue    float64
	Unit           string
	IsPublic       bool
	HasReminder    bool
	ReminderTime   string
}

// HabitPatch carries a partial habit update; nil fields are left unchanged
type HabitPatch struct {
	Title             *string
	Frequency         *Frequency
	CustomDays        []int
	TargetDate        *string
	CompletionType    *CompletionType
	TargetValue       *float64
	Unit              *string
	IsPublic          *bool
	CurrentStreak     *int
	LastCompletedDate *string
	HasReminder       *bool
	ReminderTime      *string
}

// Apply copies the patch's non-nil fields onto the habit
func (p *HabitPatch) Apply(h *Habit) {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if len(p.CustomDays) > 0 {
		h.CustomDays = p.CustomDays
	}
	if p.TargetDate != nil {
		h.TargetDate = *p.TargetDate
	}
	if p.CompletionType != nil {
		h.CompletionType = *p.CompletionType
	}
	if p.TargetValue != nil {
		h.TargetValue = *p.TargetValue
	}
	if p.Unit != nil {
		h.Unit = *p.Unit
	}
	if p.IsPublic != nil {
		h.IsPublic = *p.IsPublic
	}
	if p.CurrentStreak != nil {
		h.CurrentStreak = *p.CurrentStreak
	}
	if p.LastCompletedDate != nil {
		h.LastCompletedDate = *p.LastCompletedDate
	}
	if p.HasReminder != nil {
		h.HasReminder = *p.HasReminder
	}
	if p.ReminderTime != nil {
		h.ReminderTime = *p.ReminderTime
	}
}
