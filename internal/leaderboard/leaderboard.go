package leaderboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"habit-sync/internal/dateutil"
	"habit-sync/internal/domain/repository"
)

// Entry is one ranked leaderboard row
type Entry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"userId"`
	WeekID         string `json:"weekId"`
	TotalScheduled int    `json:"totalScheduled"`
	TotalCompleted int    `json:"totalCompleted"`
	Percentage     int    `json:"percentage"`
}

// Cache stores ranked weekly results. A nil Cache disables caching.
type Cache interface {
	GetWeek(ctx context.Context, weekID string) ([]*Entry, error)
	SetWeek(ctx context.Context, weekID string, entries []*Entry) error
}

// Service builds the weekly leaderboard from the stats collection
type Service struct {
	statsRepo repository.WeeklyStatsRepository
	cache     Cache

	now func() time.Time
}

// NewService creates a new leaderboard service; cache may be nil
func NewService(statsRepo repository.WeeklyStatsRepository, cache Cache) *Service {
	return &Service{
		statsRepo: statsRepo,
		cache:     cache,
		now:       time.Now,
	}
}

// Weekly returns the ranked leaderboard for the given week, or for the
// current ISO week when weekID is empty. Cache failures fall through to the
// stats repository.
func (s *Service) Weekly(ctx context.Context, weekID string) ([]*Entry, error) {
	if weekID == "" {
		weekID = dateutil.WeekID(s.now())
	}

	if s.cache != nil {
		entries, err := s.cache.GetWeek(ctx, weekID)
		if err != nil {
			log.Printf("leaderboard cache read failed for %s: %v", weekID, err)
		} else if len(entries) > 0 {
			return entries, nil
		}
	}

	stats, err := s.statsRepo.QueryByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly stats: %w", err)
	}

	entries := make([]*Entry, 0, len(stats))
	for i, stat := range stats {
		entries = append(entries, &Entry{
			Rank:           i + 1,
			UserID:         stat.UserID,
			WeekID:         stat.WeekID,
			TotalScheduled: stat.TotalScheduled,
			TotalCompleted: stat.TotalCompleted,
			Percentage:     stat.Percentage,
		})
	}

	if s.cache != nil && len(entries) > 0 {
		if err := s.cache.SetWeek(ctx, weekID, entries); err != nil {
			log.Printf("leaderboard cache write failed for %s: %v", weekID, err)
		}
	}

	return entries, nil
}

// UserRank returns the user's leaderboard entry for the week. Users without
// a stat row rank one past the end of the field with zero percentage.
func (s *Service) UserRank(ctx context.Context, userID, weekID string) (*Entry, error) {
	board, err := s.Weekly(ctx, weekID)
	if err != nil {
		return nil, err
	}

	for _, entry := range board {
		if entry.UserID == userID {
			return entry, nil
		}
	}

	if weekID == "" {
		weekID = dateutil.WeekID(s.now())
	}
	return &Entry{Rank: len(board) + 1, UserID: userID, WeekID: weekID}, nil
}

// LastWeekID returns the identifier of the previous ISO week
func (s *Service) LastWeekID() string {
	return dateutil.LastWeekID(s.now())
}
