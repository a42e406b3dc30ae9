package postgres

import (
	"context"
	"fmt"
	"log"

	"habit-sync/internal/domain/entity"
	"habit-sync/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const completionColumns = `id, habit_id, user_id, date, value, recorded_at`

type completionRepository struct {
	pool     *pgxpool.Pool
	notifier ChangeNotifier
}

// NewCompletionRepository creates a new PostgreSQL completion repository
func NewCompletionRepository(pool *pgxpool.Pool, notifier ChangeNotifier) repository.CompletionRepository {
	return &completionRepository{pool: pool, notifier: notifier}
}

func (r *completionRepository) Upsert(ctx context.Context, completion *entity.Completion) error {
	if completion.ID == "" {
		completion.ID = uuid.NewString()
	}

	// One logical record per (habit, user, date): a repeat write for the
	// key replaces the value instead of stacking records
	query := `
		INSERT INTO completions (` + completionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (habit_id, user_id, date) DO UPDATE SET
			value = EXCLUDED.value,
			recorded_at = EXCLUDED.recorded_at
	`

	_, err := r.pool.Exec(ctx, query,
		completion.ID, completion.HabitID, completion.UserID,
		completion.Date, completion.Value, completion.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert completion: %w", err)
	}

	r.notify(ctx, completion.UserID)
	return nil
}

func (r *completionRepository) Delete(ctx context.Context, habitID, userID, date string) error {
	query := `DELETE FROM completions WHERE habit_id = $1 AND user_id = $2 AND date = $3`

	_, err := r.pool.Exec(ctx, query, habitID, userID, date)
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}

	r.notify(ctx, userID)
	return nil
}

func (r *completionRepository) QueryByDate(ctx context.Context, userID, date string) ([]*entity.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions WHERE user_id = $1 AND date = $2`

	rows, err := r.pool.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions by date: %w", err)
	}
	defer rows.Close()

	return collectCompletions(rows)
}

func (r *completionRepository) QueryByRange(ctx context.Context, userID, startDate, endDate string) ([]*entity.Completion, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM completions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions by range: %w", err)
	}
	defer rows.Close()

	return collectCompletions(rows)
}

func (r *completionRepository) QueryByHabit(ctx context.Context, habitID, userID string) ([]*entity.Completion, error) {
	query := `
		SELECT ` + completionColumns + `
		FROM completions
		WHERE habit_id = $1 AND user_id = $2
		ORDER BY date DESC
	`

	rows, err := r.pool.Query(ctx, query, habitID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions by habit: %w", err)
	}
	defer rows.Close()

	return collectCompletions(rows)
}

func (r *completionRepository) QueryRecent(ctx context.Context, limit int) ([]*entity.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions ORDER BY recorded_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent completions: %w", err)
	}
	defer rows.Close()

	return collectCompletions(rows)
}

func (r *completionRepository) Subscribe(ctx context.Context, userID string, onSnapshot repository.CompletionSnapshotFunc) (repository.UnsubscribeFunc, error) {
	deliver := func() {
		qctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()

		completions, err := r.getAllByUser(qctx, userID)
		if err != nil {
			log.Printf("completion snapshot query failed for user %s: %v", userID, err)
			return
		}
		onSnapshot(completions)
	}

	unsubscribe, err := r.notifier.Subscribe(ctx, "completions", userID, deliver)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to completion changes: %w", err)
	}

	// Initial snapshot, then one per change
	deliver()

	return repository.UnsubscribeFunc(unsubscribe), nil
}

// getAllByUser backs the subscription snapshot: the user's full history,
// newest first
func (r *completionRepository) getAllByUser(ctx context.Context, userID string) ([]*entity.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions WHERE user_id = $1 ORDER BY recorded_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	return collectCompletions(rows)
}

func (r *completionRepository) notify(ctx context.Context, userID string) {
	if err := r.notifier.Publish(ctx, "completions", userID); err != nil {
		log.Printf("failed to notify completion change for user %s: %v", userID, err)
	}
}

func scanCompletion(row pgx.Row) (*entity.Completion, error) {
	completion := &entity.Completion{}
	err := row.Scan(
		&completion.ID, &completion.HabitID, &completion.UserID,
		&completion.Date, &completion.Value, &completion.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return completion, nil
}

func collectCompletions(rows pgx.Rows) ([]*entity.Completion, error) {
	var completions []*entity.Completion
	for rows.Next() {
		completion, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, completion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completions: %w", err)
	}

	return completions, nil
}
