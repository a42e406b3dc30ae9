package stats

import (
	"context"
	"testing"
	"time"

	"habit-sync/internal/domain/entity"
	"habit-sync/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCompletionRepo struct {
	repository.CompletionRepository

	completions []*entity.Completion
	gotStart    string
	gotEnd      string
}

func (m *mockCompletionRepo) QueryByRange(ctx context.Context, userID, startDate, endDate string) ([]*entity.Completion, error) {
	m.gotStart = startDate
	m.gotEnd = endDate
	return m.completions, nil
}

type mockStatsRepo struct {
	repository.WeeklyStatsRepository

	merged *entity.WeeklyStat
}

func (m *mockStatsRepo) Merge(ctx context.Context, stat *entity.WeeklyStat) error {
	m.merged = stat
	return nil
}

func TestRefreshAggregatesDisplayWeek(t *testing.T) {
	// Wednesday; the display week is Sun Dec 8 through Sat Dec 14
	now := time.Date(2024, 12, 11, 15, 0, 0, 0, time.UTC)

	habits := []*entity.Habit{
		{ID: "h1", Frequency: entity.FrequencyDaily, CompletionType: entity.CompletionTypeCheckbox},
		{ID: "h2", Frequency: entity.FrequencyDaily, CompletionType: entity.CompletionTypeCheckbox},
		// Mondays only
		{ID: "h3", Frequency: entity.FrequencyCustom, CustomDays: []int{1}, CompletionType: entity.CompletionTypeCheckbox},
	}

	completionRepo := &mockCompletionRepo{
		completions: []*entity.Completion{
			{HabitID: "h1", Date: "2024-12-09", Value: 1},
			{HabitID: "h2", Date: "2024-12-09", Value: 1},
		},
	}
	statsRepo := &mockStatsRepo{}

	agg := NewAggregator(completionRepo, statsRepo)
	err := agg.Refresh(context.Background(), "user-1", habits, now)
	require.NoError(t, err)

	assert.Equal(t, "2024-12-08", completionRepo.gotStart)
	assert.Equal(t, "2024-12-14", completionRepo.gotEnd)

	require.NotNil(t, statsRepo.merged)
	stat := statsRepo.merged
	assert.Equal(t, "2024-W50", stat.WeekID)
	assert.Equal(t, "user-1", stat.UserID)
	// Two dailies over 7 days plus one Monday habit
	assert.Equal(t, 15, stat.TotalScheduled)
	assert.Equal(t, 2, stat.TotalCompleted)
	assert.Equal(t, 13, stat.Percentage)
	assert.Equal(t, now, stat.LastUpdated)
}

func TestRefreshNumericalBelowTargetNotCompleted(t *testing.T) {
	now := time.Date(2024, 12, 11, 15, 0, 0, 0, time.UTC)

	habits := []*entity.Habit{
		{ID: "h1", Frequency: entity.FrequencyDaily, CompletionType: entity.CompletionTypeNumerical, TargetValue: 8},
	}

	completionRepo := &mockCompletionRepo{
		completions: []*entity.Completion{
			{HabitID: "h1", Date: "2024-12-09", Value: 8},
			{HabitID: "h1", Date: "2024-12-10", Value: 5},
		},
	}
	statsRepo := &mockStatsRepo{}

	agg := NewAggregator(completionRepo, statsRepo)
	err := agg.Refresh(context.Background(), "user-1", habits, now)
	require.NoError(t, err)

	require.NotNil(t, statsRepo.merged)
	assert.Equal(t, 7, statsRepo.merged.TotalScheduled)
	assert.Equal(t, 1, statsRepo.merged.TotalCompleted)
	assert.Equal(t, 14, statsRepo.merged.Percentage)
}

func TestRefreshNoHabits(t *testing.T) {
	now := time.Date(2024, 12, 11, 15, 0, 0, 0, time.UTC)

	completionRepo := &mockCompletionRepo{}
	statsRepo := &mockStatsRepo{}

	agg := NewAggregator(completionRepo, statsRepo)
	err := agg.Refresh(context.Background(), "user-1", nil, now)
	require.NoError(t, err)

	require.NotNil(t, statsRepo.merged)
	assert.Equal(t, 0, statsRepo.merged.TotalScheduled)
	assert.Equal(t, 0, statsRepo.merged.TotalCompleted)
	assert.Equal(t, 0, statsRepo.merged.Percentage)
}
