package entity

import (
	"math"
	"time"
)

// WeeklyStat aggregates a user's scheduled vs completed counts for one ISO
// week. One row exists per (WeekID, UserID) and is merge-upserted after
// every completion mutation.
type WeeklyStat struct {
	WeekID         string // ISO week identifier, e.g. "2024-W50"
	UserID         string
	TotalScheduled int
	TotalCompleted int
	Percentage     int
	LastUpdated    time.Time
}

// Percent returns round(completed/scheduled*100), or 0 when nothing is scheduled
func Percent(completed, scheduled int) int {
	if scheduled <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(scheduled) * 100))
}
