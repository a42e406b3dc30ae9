package postgres

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"habit-sync/internal/domain/entity"
	"habit-sync/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// snapshotTimeout bounds the re-query triggered by a change notification
const snapshotTimeout = 10 * time.Second

// ChangeNotifier broadcasts collection change notifications so subscribers
// can re-query and receive fresh snapshots
type ChangeNotifier interface {
	Publish(ctx context.Context, collection, userID string) error
	Subscribe(ctx context.Context, collection, userID string, onChange func()) (func(), error)
}

const habitColumns = `
	id, user_id, title, frequency, custom_days, target_date,
	completion_type, target_value, unit, is_public,
	current_streak, last_completed_date, has_reminder, reminder_time,
	created_at, updated_at
`

type habitRepository struct {
	pool     *pgxpool.Pool
	notifier ChangeNotifier
}

// NewHabitRepository creates a new PostgreSQL habit repository
func NewHabitRepository(pool *pgxpool.Pool, notifier ChangeNotifier) repository.HabitRepository {
	return &habitRepository{pool: pool, notifier: notifier}
}

func (r *habitRepository) Create(ctx context.Context, habit *entity.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}

	query := `
		INSERT INTO habits (` + habitColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16
		)
	`

	_, err := r.pool.Exec(ctx, query,
		habit.ID, habit.UserID, habit.Title, habit.Frequency, habit.CustomDays, habit.TargetDate,
		habit.CompletionType, habit.TargetValue, habit.Unit, habit.IsPublic,
		habit.CurrentStreak, habit.LastCompletedDate, habit.HasReminder, habit.ReminderTime,
		habit.CreatedAt, habit.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	r.notify(ctx, habit.UserID)
	return nil
}

func (r *habitRepository) GetByID(ctx context.Context, habitID string) (*entity.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	habit, err := scanHabit(r.pool.QueryRow(ctx, query, habitID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("habit not found")
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return habit, nil
}

func (r *habitRepository) GetByUserID(ctx context.Context, userID string) ([]*entity.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	defer rows.Close()

	return collectHabits(rows)
}

func (r *habitRepository) GetPublic(ctx context.Context, limit int) ([]*entity.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE is_public = TRUE ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get public habits: %w", err)
	}
	defer rows.Close()

	return collectHabits(rows)
}

func (r *habitRepository) Update(ctx context.Context, habitID string, patch entity.HabitPatch) error {
	set := make([]string, 0, 13)
	args := make([]any, 0, 14)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Frequency != nil {
		add("frequency", *patch.Frequency)
	}
	if len(patch.CustomDays) > 0 {
		add("custom_days", patch.CustomDays)
	}
	if patch.TargetDate != nil {
		add("target_date", *patch.TargetDate)
	}
	if patch.CompletionType != nil {
		add("completion_type", *patch.CompletionType)
	}
	if patch.TargetValue != nil {
		add("target_value", *patch.TargetValue)
	}
	if patch.Unit != nil {
		add("unit", *patch.Unit)
	}
	if patch.IsPublic != nil {
		add("is_public", *patch.IsPublic)
	}
	if patch.CurrentStreak != nil {
		add("current_streak", *patch.CurrentStreak)
	}
	if patch.LastCompletedDate != nil {
		add("last_completed_date", *patch.LastCompletedDate)
	}
	if patch.HasReminder != nil {
		add("has_reminder", *patch.HasReminder)
	}
	if patch.ReminderTime != nil {
		add("reminder_time", *patch.ReminderTime)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, habitID)
	query := fmt.Sprintf("UPDATE habits SET %s WHERE id = $%d RETURNING user_id",
		strings.Join(set, ", "), len(args))

	var userID string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&userID); err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("habit not found")
		}
		return fmt.Errorf("failed to update habit: %w", err)
	}

	r.notify(ctx, userID)
	return nil
}

func (r *habitRepository) Delete(ctx context.Context, habitID string) error {
	query := `DELETE FROM habits WHERE id = $1 RETURNING user_id`

	var userID string
	if err := r.pool.QueryRow(ctx, query, habitID).Scan(&userID); err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("habit not found")
		}
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	r.notify(ctx, userID)
	return nil
}

func (r *habitRepository) Subscribe(ctx context.Context, userID string, onSnapshot repository.HabitSnapshotFunc) (repository.UnsubscribeFunc, error) {
	deliver := func() {
		qctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()

		habits, err := r.GetByUserID(qctx, userID)
		if err != nil {
			log.Printf("habit snapshot query failed for user %s: %v", userID, err)
			return
		}
		onSnapshot(habits)
	}

	unsubscribe, err := r.notifier.Subscribe(ctx, "habits", userID, deliver)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to habit changes: %w", err)
	}

	// Initial snapshot, then one per change
	deliver()

	return repository.UnsubscribeFunc(unsubscribe), nil
}

// notify publishes a change notification; a failed publish only delays
// subscribers until the next change, so it is logged and swallowed
func (r *habitRepository) notify(ctx context.Context, userID string) {
	if err := r.notifier.Publish(ctx, "habits", userID); err != nil {
		log.Printf("failed to notify habit change for user %s: %v", userID, err)
	}
}

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	habit := &entity.Habit{SyncStatus: entity.SyncStatusConfirmed}
	err := row.Scan(
		&habit.ID, &habit.UserID, &habit.Title, &habit.Frequency, &habit.CustomDays, &habit.TargetDate,
		&habit.CompletionType, &habit.TargetValue, &habit.Unit, &habit.IsPublic,
		&habit.CurrentStreak, &habit.LastCompletedDate, &habit.HasReminder, &habit.ReminderTime,
		&habit.CreatedAt, &habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return habit, nil
}

func collectHabits(rows pgx.Rows) ([]*entity.Habit, error) {
	var habits []*entity.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}
