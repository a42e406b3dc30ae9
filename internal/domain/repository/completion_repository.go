package repository

import (
	"context"
	"habit-sync/internal/domain/entity"
)

// CompletionSnapshotFunc receives the user's full completion history,
// newest first
type CompletionSnapshotFunc func(completions []*entity.Completion)

// CompletionRepository defines the interface for remote completion
// persistence, keyed by (habitID, userID, date). At most one record exists
// per key.
type CompletionRepository interface {
	// Upsert creates or replaces the completion for its key
	Upsert(ctx context.Context, completion *entity.Completion) error

	// Delete removes the completion for the key; deleting an absent key is not an error
	Delete(ctx context.Context, habitID, userID, date string) error

	// QueryByDate retrieves all of a user's completions for one date
	QueryByDate(ctx context.Context, userID, date string) ([]*entity.Completion, error)

	// QueryByRange retrieves a user's completions with startDate <= date <= endDate
	QueryByRange(ctx context.Context, userID, startDate, endDate string) ([]*entity.Completion, error)

	// QueryByHabit retrieves a habit's completions ordered by date descending
	QueryByHabit(ctx context.Context, habitID, userID string) ([]*entity.Completion, error)

	// QueryRecent retrieves the newest completions across all users (for the feed)
	QueryRecent(ctx context.Context, limit int) ([]*entity.Completion, error)

	// Subscribe delivers an initial snapshot and one more per remote change
	// until the returned function is called
	Subscribe(ctx context.Context, userID string, onSnapshot CompletionSnapshotFunc) (UnsubscribeFunc, error)
}
