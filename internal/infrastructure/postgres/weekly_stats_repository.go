package postgres

import (
	"context"
	"fmt"

	"habit-sync/internal/domain/entity"
	"habit-sync/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type weeklyStatsRepository struct {
	pool *pgxpool.Pool
}

// NewWeeklyStatsRepository creates a new PostgreSQL weekly stats repository
func NewWeeklyStatsRepository(pool *pgxpool.Pool) repository.WeeklyStatsRepository {
	return &weeklyStatsRepository{pool: pool}
}

func (r *weeklyStatsRepository) Merge(ctx context.Context, stat *entity.WeeklyStat) error {
	query := `
		INSERT INTO weekly_stats (
			week_id, user_id, total_scheduled, total_completed, percentage, last_updated
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (week_id, user_id) DO UPDATE SET
			total_scheduled = EXCLUDED.total_scheduled,
			total_completed = EXCLUDED.total_completed,
			percentage = EXCLUDED.percentage,
			last_updated = EXCLUDED.last_updated
	`

	_, err := r.pool.Exec(ctx, query,
		stat.WeekID, stat.UserID, stat.TotalScheduled, stat.TotalCompleted,
		stat.Percentage, stat.LastUpdated,
	)

	if err != nil {
		return fmt.Errorf("failed to merge weekly stats: %w", err)
	}

	return nil
}

func (r *weeklyStatsRepository) QueryByWeek(ctx context.Context, weekID string) ([]*entity.WeeklyStat, error) {
	query := `
		SELECT week_id, user_id, total_scheduled, total_completed, percentage, last_updated
		FROM weekly_stats
		WHERE week_id = $1
		ORDER BY percentage DESC, total_completed DESC
	`

	rows, err := r.pool.Query(ctx, query, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly stats: %w", err)
	}
	defer rows.Close()

	var stats []*entity.WeeklyStat
	for rows.Next() {
		stat := &entity.WeeklyStat{}
		err := rows.Scan(
			&stat.WeekID, &stat.UserID, &stat.TotalScheduled, &stat.TotalCompleted,
			&stat.Percentage, &stat.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weekly stat: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekly stats: %w", err)
	}

	return stats, nil
}
