package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"habit-sync/internal/domain/entity"
	"habit-sync/internal/domain/repository"
	"habit-sync/internal/feed"
	"habit-sync/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var testNow = time.Date(2024, 12, 11, 15, 0, 0, 0, time.UTC)

const (
	today     = "2024-12-11"
	yesterday = "2024-12-10"
)

type fakeHabitRepo struct {
	habits    []*entity.Habit
	created   []*entity.Habit
	updates   []entity.HabitPatch
	updateIDs []string
	deleted   []string

	createErr error
	updateErr error
	deleteErr error

	onSnapshot repository.HabitSnapshotFunc
}

func (f *fakeHabitRepo) Create(ctx context.Context, habit *entity.Habit) error {
	if f.createErr != nil {
		return f.createErr
	}
	if habit.ID == "" {
		habit.ID = fmt.Sprintf("srv-%d", len(f.created)+1)
	}
	f.created = append(f.created, habit)
	return nil
}

func (f *fakeHabitRepo) GetByID(ctx context.Context, habitID string) (*entity.Habit, error) {
	for _, h := range f.habits {
		if h.ID == habitID {
			return h, nil
		}
	}
	return nil, errors.New("habit not found")
}

func (f *fakeHabitRepo) GetByUserID(ctx context.Context, userID string) ([]*entity.Habit, error) {
	return f.habits, nil
}

func (f *fakeHabitRepo) GetPublic(ctx context.Context, limit int) ([]*entity.Habit, error) {
	return nil, nil
}

func (f *fakeHabitRepo) Update(ctx context.Context, habitID string, patch entity.HabitPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateIDs = append(f.updateIDs, habitID)
	f.updates = append(f.updates, patch)
	return nil
}

func (f *fakeHabitRepo) Delete(ctx context.Context, habitID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, habitID)
	return nil
}

func (f *fakeHabitRepo) Subscribe(ctx context.Context, userID string, onSnapshot repository.HabitSnapshotFunc) (repository.UnsubscribeFunc, error) {
	f.onSnapshot = onSnapshot
	return func() {}, nil
}

type fakeCompletionRepo struct {
	byDate  []*entity.Completion
	byRange []*entity.Completion
	byHabit []*entity.Completion

	// records tracks the remotely visible state, replayed from writes
	records map[string]*entity.Completion
	upserts []*entity.Completion
	deletes []string

	upsertErr error
	deleteErr error

	onSnapshot repository.CompletionSnapshotFunc
}

func (f *fakeCompletionRepo) Upsert(ctx context.Context, completion *entity.Completion) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.records == nil {
		f.records = make(map[string]*entity.Completion)
	}
	f.records[completion.HabitID+"|"+completion.Date] = completion
	f.upserts = append(f.upserts, completion)
	return nil
}

func (f *fakeCompletionRepo) Delete(ctx context.Context, habitID, userID, date string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, habitID+"|"+date)
	f.deletes = append(f.deletes, habitID+"|"+date)
	return nil
}

func (f *fakeCompletionRepo) QueryByDate(ctx context.Context, userID, date string) ([]*entity.Completion, error) {
	return f.byDate, nil
}

func (f *fakeCompletionRepo) QueryByRange(ctx context.Context, userID, startDate, endDate string) ([]*entity.Completion, error) {
	if f.byRange != nil {
		return f.byRange, nil
	}
	var completions []*entity.Completion
	for _, c := range f.records {
		if c.Date >= startDate && c.Date <= endDate {
			completions = append(completions, c)
		}
	}
	return completions, nil
}

func (f *fakeCompletionRepo) QueryByHabit(ctx context.Context, habitID, userID string) ([]*entity.Completion, error) {
	return f.byHabit, nil
}

func (f *fakeCompletionRepo) QueryRecent(ctx context.Context, limit int) ([]*entity.Completion, error) {
	return nil, nil
}

func (f *fakeCompletionRepo) Subscribe(ctx context.Context, userID string, onSnapshot repository.CompletionSnapshotFunc) (repository.UnsubscribeFunc, error) {
	f.onSnapshot = onSnapshot
	return func() {}, nil
}

type fakeStatsRepo struct {
	merged []*entity.WeeklyStat
}

func (f *fakeStatsRepo) Merge(ctx context.Context, stat *entity.WeeklyStat) error {
	f.merged = append(f.merged, stat)
	return nil
}

func (f *fakeStatsRepo) QueryByWeek(ctx context.Context, weekID string) ([]*entity.WeeklyStat, error) {
	return nil, nil
}

type fakePublisher struct {
	events []feed.Event
}

func (f *fakePublisher) PublishCompletion(ctx context.Context, event feed.Event) error {
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	store          *Store
	habitRepo      *fakeHabitRepo
	completionRepo *fakeCompletionRepo
	statsRepo      *fakeStatsRepo
	publisher      *fakePublisher
}

// newFixture builds a store with fake collaborators, a fixed clock, and
// synchronous background execution
func newFixture() *fixture {
	habitRepo := &fakeHabitRepo{}
	completionRepo := &fakeCompletionRepo{}
	statsRepo := &fakeStatsRepo{}
	publisher := &fakePublisher{}

	s := New(habitRepo, completionRepo, stats.NewAggregator(completionRepo, statsRepo), publisher)
	s.now = func() time.Time { return testNow }
	s.launch = func(fn func()) { fn() }

	return &fixture{
		store:          s,
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		statsRepo:      statsRepo,
		publisher:      publisher,
	}
}

func (f *fixture) addHabit(h *entity.Habit) *entity.Habit {
	if h.SyncStatus == "" {
		h.SyncStatus = entity.SyncStatusConfirmed
	}
	f.store.mu.Lock()
	f.store.habits = append(f.store.habits, h)
	f.store.mu.Unlock()
	return h
}

func checkboxHabit(id string) *entity.Habit {
	return &entity.Habit{
		ID:             id,
		UserID:         "user-1",
		Title:          "Read",
		Frequency:      entity.FrequencyDaily,
		CompletionType: entity.CompletionTypeCheckbox,
		SyncStatus:     entity.SyncStatusConfirmed,
		CreatedAt:      testNow.AddDate(0, 0, -30),
	}
}

func numericalHabit(id string, target float64) *entity.Habit {
	h := checkboxHabit(id)
	h.Title = "Drink water"
	h.CompletionType = entity.CompletionTypeNumerical
	h.TargetValue = target
	h.Unit = "glasses"
	return h
}

func TestCreateHabitValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft entity.HabitDraft
		field string
	}{
		{
			name:  "empty title",
			draft: entity.HabitDraft{Title: "  ", Frequency: entity.FrequencyDaily, CompletionType: entity.CompletionTypeCheckbox},
			field: "title",
		},
		{
			name:  "custom without days",
			draft: entity.HabitDraft{Title: "Gym", Frequency: entity.FrequencyCustom, CompletionType: entity.CompletionTypeCheckbox},
			field: "customDays",
		},
		{
			name:  "custom with out of range day",
			draft: entity.HabitDraft{Title: "Gym", Frequency: entity.FrequencyCustom, CustomDays: []int{7}, CompletionType: entity.CompletionTypeCheckbox},
			field: "customDays",
		},
		{
			name:  "one-time without target date",
			draft: entity.HabitDraft{Title: "Taxes", Frequency: entity.FrequencyOneTime, CompletionType: entity.CompletionTypeCheckbox},
			field: "targetDate",
		},
		{
			name:  "one-time with malformed target date",
			draft: entity.HabitDraft{Title: "Taxes", Frequency: entity.FrequencyOneTime, TargetDate: "next tuesday", CompletionType: entity.CompletionTypeCheckbox},
			field: "targetDate",
		},
		{
			name:  "unknown frequency",
			draft: entity.HabitDraft{Title: "Gym", Frequency: "fortnightly", CompletionType: entity.CompletionTypeCheckbox},
			field: "frequency",
		},
		{
			name:  "numerical without target value",
			draft: entity.HabitDraft{Title: "Water", Frequency: entity.FrequencyDaily, CompletionType: entity.CompletionTypeNumerical, Unit: "glasses"},
			field: "targetValue",
		},
		{
			name:  "numerical without unit",
			draft: entity.HabitDraft{Title: "Water", Frequency: entity.FrequencyDaily, CompletionType: entity.CompletionTypeNumerical, TargetValue: 8},
			field: "unit",
		},
		{
			name:  "unknown completion type",
			draft: entity.HabitDraft{Title: "Gym", Frequency: entity.FrequencyDaily, CompletionType: "emoji"},
			field: "completionType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.store.CreateHabit(context.Background(), "user-1", tt.draft)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, f.store.Habits())
			assert.Empty(t, f.habitRepo.created)
		})
	}
}

func TestCreateHabitOptimisticLifecycle(t *testing.T) {
	f := newFixture()

	// Queue background work so the pending state is observable
	var queue []func()
	f.store.launch = func(fn func()) { queue = append(queue, fn) }

	habit, err := f.store.CreateHabit(context.Background(), "user-1", entity.HabitDraft{
		Title:          "Read",
		Frequency:      entity.FrequencyDaily,
		CompletionType: entity.CompletionTypeCheckbox,
		IsPublic:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SyncStatusPending, habit.SyncStatus)
	assert.NotEmpty(t, habit.ID)
	tempID := habit.ID

	listed := f.store.Habits()
	require.Len(t, listed, 1)
	assert.Equal(t, tempID, listed[0].ID)

	// Run the queued remote create
	require.Len(t, queue, 1)
	queue[0]()

	listed = f.store.Habits()
	require.Len(t, listed, 1)
	assert.Equal(t, entity.SyncStatusConfirmed, listed[0].SyncStatus)
	assert.NotEqual(t, tempID, listed[0].ID)
	assert.Empty(t, f.store.pending)

	require.Len(t, f.habitRepo.created, 1)
	assert.Equal(t, "Read", f.habitRepo.created[0].Title)
	assert.True(t, f.habitRepo.created[0].IsPublic)
}

func TestCreateHabitSyncFailureKeepsEntry(t *testing.T) {
	f := newFixture()
	f.habitRepo.createErr = errors.New("connection refused")

	var reported error
	f.store.SetSyncErrorHandler(func(err error) { reported = err })

	habit, err := f.store.CreateHabit(context.Background(), "user-1", entity.HabitDraft{
		Title:          "Read",
		Frequency:      entity.FrequencyDaily,
		CompletionType: entity.CompletionTypeCheckbox,
	})
	require.NoError(t, err)

	listed := f.store.Habits()
	require.Len(t, listed, 1)
	assert.Equal(t, entity.SyncStatusFailed, listed[0].SyncStatus)
	assert.Equal(t, habit.ID, listed[0].ID)

	var serr *SyncError
	require.ErrorAs(t, reported, &serr)
	assert.Equal(t, "create habit", serr.Op)

	// Still treated as unacknowledged: a snapshot push must not drop it
	f.store.mergeHabits(nil)
	assert.Len(t, f.store.Habits(), 1)
}

func TestUpdateHabit(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))

	title := "Read more"
	isPublic := true
	err := f.store.UpdateHabit(context.Background(), "h1", entity.HabitPatch{
		Title:    &title,
		IsPublic: &isPublic,
	})
	require.NoError(t, err)

	listed := f.store.Habits()
	assert.Equal(t, "Read more", listed[0].Title)
	assert.True(t, listed[0].IsPublic)
	assert.Equal(t, testNow, listed[0].UpdatedAt)

	require.Len(t, f.habitRepo.updates, 1)
	assert.Equal(t, "h1", f.habitRepo.updateIDs[0])
	assert.Equal(t, "Read more", *f.habitRepo.updates[0].Title)
}

func TestUpdateHabitUnknownID(t *testing.T) {
	f := newFixture()

	title := "Read more"
	err := f.store.UpdateHabit(context.Background(), "nope", entity.HabitPatch{Title: &title})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateHabitPendingSkipsRemote(t *testing.T) {
	f := newFixture()
	h := checkboxHabit("tmp-1")
	h.SyncStatus = entity.SyncStatusPending
	f.addHabit(h)

	title := "Read more"
	err := f.store.UpdateHabit(context.Background(), "tmp-1", entity.HabitPatch{Title: &title})
	require.NoError(t, err)

	// Local apply only; the in-flight create carries the patched fields
	assert.Equal(t, "Read more", f.store.Habits()[0].Title)
	assert.Empty(t, f.habitRepo.updates)
}

func TestDeleteHabit(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))

	err := f.store.DeleteHabit(context.Background(), "h1")
	require.NoError(t, err)

	assert.Empty(t, f.store.Habits())
	assert.Equal(t, []string{"h1"}, f.habitRepo.deleted)
}

func TestDeleteHabitPendingSkipsRemote(t *testing.T) {
	f := newFixture()
	h := checkboxHabit("tmp-1")
	h.SyncStatus = entity.SyncStatusPending
	f.addHabit(h)
	f.store.pending["tmp-1"] = struct{}{}

	err := f.store.DeleteHabit(context.Background(), "tmp-1")
	require.NoError(t, err)

	assert.Empty(t, f.store.Habits())
	assert.Empty(t, f.store.pending)
	assert.Empty(t, f.habitRepo.deleted)
}

func TestToggleCompletionAddThenRemove(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))

	err := f.store.ToggleCompletion(context.Background(), "h1", "user-1", today)
	require.NoError(t, err)

	assert.True(t, f.store.IsCompleted("h1", today))
	assert.Equal(t, 1, f.store.Habits()[0].CurrentStreak)
	assert.Equal(t, today, f.store.Habits()[0].LastCompletedDate)
	require.Len(t, f.completionRepo.upserts, 1)
	assert.Equal(t, float64(1), f.completionRepo.upserts[0].Value)

	// The streak write and the weekly stat refresh both ran
	assert.NotEmpty(t, f.habitRepo.updates)
	assert.NotEmpty(t, f.statsRepo.merged)

	err = f.store.ToggleCompletion(context.Background(), "h1", "user-1", today)
	require.NoError(t, err)

	assert.False(t, f.store.IsCompleted("h1", today))
	assert.Equal(t, 0, f.store.Habits()[0].CurrentStreak)
	assert.Empty(t, f.store.Habits()[0].LastCompletedDate)
	assert.Equal(t, []string{"h1|" + today}, f.completionRepo.deletes)
}

func TestToggleCompletionStatsIncludeOwnMutation(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))

	// The aggregator reads remote completions, so the refresh must run
	// after the completion write it was triggered by
	require.NoError(t, f.store.ToggleCompletion(context.Background(), "h1", "user-1", today))

	require.NotEmpty(t, f.statsRepo.merged)
	stat := f.statsRepo.merged[len(f.statsRepo.merged)-1]
	assert.Equal(t, 1, stat.TotalCompleted)

	// Un-completing drops the count again
	require.NoError(t, f.store.ToggleCompletion(context.Background(), "h1", "user-1", today))

	stat = f.statsRepo.merged[len(f.statsRepo.merged)-1]
	assert.Equal(t, 0, stat.TotalCompleted)
}

func TestUpdateProgressStatsIncludeOwnMutation(t *testing.T) {
	f := newFixture()
	f.addHabit(numericalHabit("h1", 5))

	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 6))

	require.NotEmpty(t, f.statsRepo.merged)
	stat := f.statsRepo.merged[len(f.statsRepo.merged)-1]
	assert.Equal(t, 1, stat.TotalCompleted)

	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 0))

	stat = f.statsRepo.merged[len(f.statsRepo.merged)-1]
	assert.Equal(t, 0, stat.TotalCompleted)
}

func TestToggleCompletionNonTodayIsNoOp(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))

	err := f.store.ToggleCompletion(context.Background(), "h1", "user-1", yesterday)
	require.NoError(t, err)

	assert.False(t, f.store.IsCompleted("h1", yesterday))
	assert.Equal(t, 0, f.store.Habits()[0].CurrentStreak)
	assert.Empty(t, f.completionRepo.upserts)
	assert.Empty(t, f.statsRepo.merged)
}

func TestToggleCompletionUnknownHabit(t *testing.T) {
	f := newFixture()

	err := f.store.ToggleCompletion(context.Background(), "nope", "user-1", today)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestToggleCompletionRemoteFailureKeepsLocalState(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))
	f.completionRepo.upsertErr = errors.New("write timeout")

	err := f.store.ToggleCompletion(context.Background(), "h1", "user-1", today)

	var serr *SyncError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "toggle completion", serr.Op)

	// Local-wins: the optimistic apply is not rolled back
	assert.True(t, f.store.IsCompleted("h1", today))
	assert.Equal(t, 1, f.store.Habits()[0].CurrentStreak)

	// No refresh for a write the remote never saw
	assert.Empty(t, f.statsRepo.merged)
}

func TestToggleCompletionPublishesPublicFeedEvent(t *testing.T) {
	f := newFixture()
	public := checkboxHabit("h1")
	public.IsPublic = true
	public.CurrentStreak = 4
	f.addHabit(public)
	f.addHabit(checkboxHabit("h2"))

	require.NoError(t, f.store.ToggleCompletion(context.Background(), "h1", "user-1", today))
	require.NoError(t, f.store.ToggleCompletion(context.Background(), "h2", "user-1", today))

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, "h1", event.HabitID)
	assert.Equal(t, "Read", event.HabitTitle)
	assert.Equal(t, 5, event.Streak)
	assert.Equal(t, today, event.Date)

	// Un-completing publishes nothing
	require.NoError(t, f.store.ToggleCompletion(context.Background(), "h1", "user-1", today))
	assert.Len(t, f.publisher.events, 1)
}

func TestUpdateProgressThresholdCrossing(t *testing.T) {
	f := newFixture()
	f.addHabit(numericalHabit("h1", 5))

	// Below target: record stored, streak unchanged
	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 3))
	assert.Equal(t, float64(3), f.store.ValueFor("h1", today))
	assert.Equal(t, 0, f.store.Habits()[0].CurrentStreak)

	// Crossing up bumps the streak once
	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 5))
	assert.Equal(t, 1, f.store.Habits()[0].CurrentStreak)

	// Already above target: no further movement
	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 7))
	assert.Equal(t, float64(7), f.store.ValueFor("h1", today))
	assert.Equal(t, 1, f.store.Habits()[0].CurrentStreak)

	// Crossing back down undoes the bump
	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 2))
	assert.Equal(t, 0, f.store.Habits()[0].CurrentStreak)
}

func TestUpdateProgressPreservesRecordID(t *testing.T) {
	f := newFixture()
	f.addHabit(numericalHabit("h1", 5))

	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 3))
	require.Len(t, f.completionRepo.upserts, 1)
	firstID := f.completionRepo.upserts[0].ID

	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 4))
	require.Len(t, f.completionRepo.upserts, 2)
	assert.Equal(t, firstID, f.completionRepo.upserts[1].ID)
}

func TestUpdateProgressZeroDeletesRecord(t *testing.T) {
	f := newFixture()
	f.addHabit(numericalHabit("h1", 5))

	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 6))
	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", today, 0))

	assert.False(t, f.store.IsCompleted("h1", today))
	assert.Equal(t, float64(0), f.store.ValueFor("h1", today))
	assert.Equal(t, 0, f.store.Habits()[0].CurrentStreak)
	assert.Equal(t, []string{"h1|" + today}, f.completionRepo.deletes)
}

func TestUpdateProgressNonTodayIsNoOp(t *testing.T) {
	f := newFixture()
	f.addHabit(numericalHabit("h1", 5))

	require.NoError(t, f.store.UpdateProgress(context.Background(), "h1", "user-1", yesterday, 6))

	assert.False(t, f.store.IsCompleted("h1", yesterday))
	assert.Empty(t, f.completionRepo.upserts)
}

func TestCheckStreaks(t *testing.T) {
	f := newFixture()

	kept := checkboxHabit("done")
	kept.CurrentStreak = 3
	f.addHabit(kept)

	missed := checkboxHabit("missed")
	missed.CurrentStreak = 2
	missed.LastCompletedDate = "2024-12-09"
	f.addHabit(missed)

	// Wednesdays only; yesterday was Tuesday, so no reset applies
	offDay := checkboxHabit("off-day")
	offDay.Frequency = entity.FrequencyCustom
	offDay.CustomDays = []int{3}
	offDay.CurrentStreak = 4
	f.addHabit(offDay)

	oneTime := checkboxHabit("one-time")
	oneTime.Frequency = entity.FrequencyOneTime
	oneTime.TargetDate = yesterday
	oneTime.CurrentStreak = 1
	f.addHabit(oneTime)

	f.completionRepo.byDate = []*entity.Completion{
		{HabitID: "done", UserID: "user-1", Date: yesterday, Value: 1},
	}

	require.NoError(t, f.store.CheckStreaks(context.Background(), "user-1"))

	habits := f.store.Habits()
	byID := make(map[string]*entity.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	assert.Equal(t, 3, byID["done"].CurrentStreak)
	assert.Equal(t, 0, byID["missed"].CurrentStreak)
	assert.Equal(t, 4, byID["off-day"].CurrentStreak)
	assert.Equal(t, 0, byID["one-time"].CurrentStreak)

	// The local entry matches what the reset persists remotely
	assert.Empty(t, byID["missed"].LastCompletedDate)

	// Only the resets were persisted
	assert.ElementsMatch(t, []string{"missed", "one-time"}, f.habitRepo.updateIDs)
	for _, patch := range f.habitRepo.updates {
		require.NotNil(t, patch.CurrentStreak)
		assert.Equal(t, 0, *patch.CurrentStreak)
	}
}

func TestCheckStreaksIsIdempotent(t *testing.T) {
	f := newFixture()
	missed := checkboxHabit("missed")
	missed.CurrentStreak = 2
	f.addHabit(missed)

	require.NoError(t, f.store.CheckStreaks(context.Background(), "user-1"))
	require.NoError(t, f.store.CheckStreaks(context.Background(), "user-1"))

	assert.Equal(t, 0, f.store.Habits()[0].CurrentStreak)
	// The second pass skips habits already at zero
	assert.Len(t, f.habitRepo.updateIDs, 1)
}

func TestRecalculateStreak(t *testing.T) {
	f := newFixture()
	h := checkboxHabit("h1")
	h.CurrentStreak = 9
	f.addHabit(h)

	f.completionRepo.byHabit = []*entity.Completion{
		{HabitID: "h1", Date: today, Value: 1},
		{HabitID: "h1", Date: yesterday, Value: 1},
	}

	value, err := f.store.RecalculateStreak(context.Background(), "h1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, value)
	assert.Equal(t, 2, f.store.Habits()[0].CurrentStreak)
	assert.Equal(t, []string{"h1"}, f.habitRepo.updateIDs)
}

func TestLongestStreak(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))

	f.completionRepo.byHabit = []*entity.Completion{
		{HabitID: "h1", Date: "2024-11-01", Value: 1},
		{HabitID: "h1", Date: "2024-11-02", Value: 1},
		{HabitID: "h1", Date: "2024-11-03", Value: 1},
		{HabitID: "h1", Date: "2024-11-10", Value: 1},
	}

	value, err := f.store.LongestStreak(context.Background(), "h1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, value)

	// Read-only: no writes issued
	assert.Empty(t, f.habitRepo.updates)
}

func TestMergeHabitsRetainsPendingEntries(t *testing.T) {
	f := newFixture()

	pending := checkboxHabit("tmp-1")
	pending.SyncStatus = entity.SyncStatusPending
	f.addHabit(pending)
	f.store.pending["tmp-1"] = struct{}{}

	stale := checkboxHabit("h-old")
	f.addHabit(stale)

	snapshot := []*entity.Habit{checkboxHabit("h-new")}
	f.store.mergeHabits(snapshot)

	habits := f.store.Habits()
	require.Len(t, habits, 2)
	assert.Equal(t, "tmp-1", habits[0].ID)
	assert.Equal(t, "h-new", habits[1].ID)
}

func TestMergeCompletionsRebuildsBuckets(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))
	require.NoError(t, f.store.ToggleCompletion(context.Background(), "h1", "user-1", today))

	f.store.mergeCompletions([]*entity.Completion{
		{HabitID: "h2", Date: yesterday, Value: 1},
	})

	assert.False(t, f.store.IsCompleted("h1", today))
	assert.True(t, f.store.IsCompleted("h2", yesterday))
}

func TestStatsFor(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))
	f.addHabit(checkboxHabit("h2"))

	// Not scheduled on Wednesdays
	weekend := checkboxHabit("h3")
	weekend.Frequency = entity.FrequencyCustom
	weekend.CustomDays = []int{0, 6}
	f.addHabit(weekend)

	require.NoError(t, f.store.ToggleCompletion(context.Background(), "h1", "user-1", today))

	completed, total, percentage := f.store.StatsFor(testNow)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 2, total)
	assert.Equal(t, 50, percentage)
}

func TestHabitsForFiltersBySchedule(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("daily"))

	weekend := checkboxHabit("weekend")
	weekend.Frequency = entity.FrequencyCustom
	weekend.CustomDays = []int{0, 6}
	f.addHabit(weekend)

	scheduled := f.store.HabitsFor(testNow)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "daily", scheduled[0].ID)
}

func TestLoadReplacesLocalList(t *testing.T) {
	f := newFixture()
	f.habitRepo.habits = []*entity.Habit{checkboxHabit("h1"), checkboxHabit("h2")}

	habits, err := f.store.Load(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Len(t, habits, 2)
	assert.Len(t, f.store.Habits(), 2)
}

func TestLoadCompletionsCachesDate(t *testing.T) {
	f := newFixture()
	f.completionRepo.byDate = []*entity.Completion{
		{HabitID: "h1", Date: today, Value: 1},
	}

	completions, err := f.store.LoadCompletions(context.Background(), "user-1", today)
	require.NoError(t, err)

	assert.Len(t, completions, 1)
	assert.True(t, f.store.IsCompleted("h1", today))
}

func TestStartSubscribesAndPushesApply(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.store.Start(context.Background(), "user-1"))
	require.NotNil(t, f.habitRepo.onSnapshot)
	require.NotNil(t, f.completionRepo.onSnapshot)

	f.habitRepo.onSnapshot([]*entity.Habit{checkboxHabit("h1")})
	f.completionRepo.onSnapshot([]*entity.Completion{{HabitID: "h1", Date: today, Value: 1}})

	assert.Len(t, f.store.Habits(), 1)
	assert.True(t, f.store.IsCompleted("h1", today))
}

func TestClearAllDropsState(t *testing.T) {
	f := newFixture()
	f.addHabit(checkboxHabit("h1"))
	require.NoError(t, f.store.ToggleCompletion(context.Background(), "h1", "user-1", today))

	f.store.ClearAll()

	assert.Empty(t, f.store.Habits())
	assert.False(t, f.store.IsCompleted("h1", today))
}
