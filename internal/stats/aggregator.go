package stats

import (
	"context"
	"fmt"
	"time"

	"habit-sync/internal/dateutil"
	"habit-sync/internal/domain/entity"
	"habit-sync/internal/domain/repository"
	"habit-sync/internal/schedule"
)

// Aggregator recomputes a user's weekly scheduled/completed totals for the
// leaderboard.
type Aggregator struct {
	completionRepo repository.CompletionRepository
	statsRepo      repository.WeeklyStatsRepository
}

// NewAggregator creates a new weekly stats aggregator
func NewAggregator(completionRepo repository.CompletionRepository, statsRepo repository.WeeklyStatsRepository) *Aggregator {
	return &Aggregator{
		completionRepo: completionRepo,
		statsRepo:      statsRepo,
	}
}

// Refresh recomputes the full display week containing now and merge-upserts
// the user's weekly stat row. This is a full 7-day rescan rather than an
// incremental delta: a week has at most 7 x len(habits) terms, so
// correctness wins over efficiency.
func (a *Aggregator) Refresh(ctx context.Context, userID string, habits []*entity.Habit, now time.Time) error {
	weekStart, weekEnd := dateutil.DisplayWeekRange(now)

	completions, err := a.completionRepo.QueryByRange(ctx, userID,
		dateutil.FormatDate(weekStart), dateutil.FormatDate(weekEnd))
	if err != nil {
		return fmt.Errorf("failed to query week completions: %w", err)
	}

	byKey := make(map[string]*entity.Completion, len(completions))
	for _, c := range completions {
		byKey[c.HabitID+"|"+c.Date] = c
	}

	var scheduled, completed int
	for _, day := range dateutil.DisplayWeekDays(now) {
		dateStr := dateutil.FormatDate(day)
		for _, h := range habits {
			if !schedule.IsScheduled(h, day) {
				continue
			}
			scheduled++
			if schedule.IsQualifying(h, byKey[h.ID+"|"+dateStr]) {
				completed++
			}
		}
	}

	stat := &entity.WeeklyStat{
		WeekID:         dateutil.WeekID(now),
		UserID:         userID,
		TotalScheduled: scheduled,
		TotalCompleted: completed,
		Percentage:     entity.Percent(completed, scheduled),
		LastUpdated:    now,
	}

	if err := a.statsRepo.Merge(ctx, stat); err != nil {
		return fmt.Errorf("failed to merge weekly stats: %w", err)
	}

	return nil
}
