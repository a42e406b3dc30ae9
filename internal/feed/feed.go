package feed

import (
	"context"
	"log"
	"time"

	"habit-sync/internal/dateutil"
	"habit-sync/internal/domain/entity"
	"habit-sync/internal/domain/repository"
)

const defaultLimit = 50

// Event is a single public activity item pushed to the feed topic when a
// completion is recorded.
type Event struct {
	HabitID    string    `json:"habitId"`
	HabitTitle string    `json:"habitTitle"`
	UserID     string    `json:"userId"`
	Date       string    `json:"date"`
	Streak     int       `json:"streak"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher pushes completion events to the shared activity feed
type Publisher interface {
	PublishCompletion(ctx context.Context, event Event) error
}

// Item is a rendered feed entry
type Item struct {
	ID         string
	HabitID    string
	HabitTitle string
	UserID     string
	Date       string
	Streak     int
	Timestamp  time.Time
	TimeAgo    string
}

// Service builds the public activity feed from recent completions
type Service struct {
	completionRepo repository.CompletionRepository
	habitRepo      repository.HabitRepository
	limit          int

	now func() time.Time
}

// NewService creates a new feed service; limit is the item cap applied when
// a caller does not pass one (values <= 0 fall back to a built-in default)
func NewService(completionRepo repository.CompletionRepository, habitRepo repository.HabitRepository, limit int) *Service {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Service{
		completionRepo: completionRepo,
		habitRepo:      habitRepo,
		limit:          limit,
		now:            time.Now,
	}
}

// Recent returns up to limit feed items for public habits, newest first,
// deduplicated per (habit, date). A limit <= 0 uses the configured cap.
func (s *Service) Recent(ctx context.Context, limit int) ([]*Item, error) {
	if limit <= 0 {
		limit = s.limit
	}

	// Over-fetch: completions of private habits are filtered out below
	completions, err := s.completionRepo.QueryRecent(ctx, limit*2)
	if err != nil {
		return nil, err
	}

	items := make([]*Item, 0, limit)
	seen := make(map[string]bool)
	habitCache := make(map[string]*entity.Habit)
	now := s.now()

	for _, c := range completions {
		if len(items) >= limit {
			break
		}

		key := c.HabitID + "_" + c.Date
		if seen[key] {
			continue
		}

		habit, ok := habitCache[c.HabitID]
		if !ok {
			habit, err = s.habitRepo.GetByID(ctx, c.HabitID)
			if err != nil {
				log.Printf("skipping feed item, failed to load habit %s: %v", c.HabitID, err)
				continue
			}
			habitCache[c.HabitID] = habit
		}
		if habit == nil || !habit.IsPublic {
			continue
		}

		items = append(items, &Item{
			ID:         c.ID,
			HabitID:    c.HabitID,
			HabitTitle: habit.Title,
			UserID:     c.UserID,
			Date:       c.Date,
			Streak:     habit.CurrentStreak,
			Timestamp:  c.Timestamp,
			TimeAgo:    dateutil.RelativeTime(c.Timestamp, now),
		})
		seen[key] = true
	}

	return items, nil
}
