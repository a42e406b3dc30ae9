package repository

import (
	"context"
	"habit-sync/internal/domain/entity"
)

// WeeklyStatsRepository defines the interface for the leaderboard's weekly
// aggregate collection, keyed by (weekID, userID).
type WeeklyStatsRepository interface {
	// Merge upserts the stat row for its (WeekID, UserID) key
	Merge(ctx context.Context, stat *entity.WeeklyStat) error

	// QueryByWeek retrieves all stats for a week, ordered by percentage descending
	QueryByWeek(ctx context.Context, weekID string) ([]*entity.WeeklyStat, error)
}
