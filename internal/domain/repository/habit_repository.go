package repository

import (
	"context"
	"habit-sync/internal/domain/entity"
)

// UnsubscribeFunc tears down a push subscription
type UnsubscribeFunc func()

// HabitSnapshotFunc receives the full authoritative habit list, newest first
type HabitSnapshotFunc func(habits []*entity.Habit)

// HabitRepository defines the interface for remote habit persistence.
// The backing store is eventually consistent and offers no multi-document
// transactions; cross-collection consistency is the store's responsibility.
type HabitRepository interface {
	// Create persists a new habit and assigns its authoritative ID
	Create(ctx context.Context, habit *entity.Habit) error

	// GetByID retrieves a habit by ID
	GetByID(ctx context.Context, habitID string) (*entity.Habit, error)

	// GetByUserID retrieves all habits for a user, ordered by creation time descending
	GetByUserID(ctx context.Context, userID string) ([]*entity.Habit, error)

	// GetPublic retrieves the newest public habits (for the activity feed)
	GetPublic(ctx context.Context, limit int) ([]*entity.Habit, error)

	// Update applies a partial update to a habit
	Update(ctx context.Context, habitID string, patch entity.HabitPatch) error

	// Delete removes a habit
	Delete(ctx context.Context, habitID string) error

	// Subscribe delivers an initial snapshot and one more per remote change
	// until the returned function is called
	Subscribe(ctx context.Context, userID string, onSnapshot HabitSnapshotFunc) (UnsubscribeFunc, error)
}
