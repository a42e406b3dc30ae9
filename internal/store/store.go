package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"habit-sync/internal/dateutil"
	"habit-sync/internal/domain/entity"
	"habit-sync/internal/domain/repository"
	"habit-sync/internal/feed"
	"habit-sync/internal/schedule"
	"habit-sync/internal/stats"
	"habit-sync/internal/streak"

	"github.com/google/uuid"
)

// syncTimeout bounds every background remote write
const syncTimeout = 10 * time.Second

// Store is the sole in-process owner of a user's habit list and
// date-indexed completion map. Every mutation applies locally first,
// recomputes derived state (streak, weekly stats), then syncs to the remote
// repositories in the background; subscription pushes merge the
// authoritative remote state back in.
//
// Methods are safe for interleaved callers: critical sections are
// serialized, so no caller ever observes a partially-applied mutation.
// Background writes are asynchronous continuations that are not cancelable
// once issued.
type Store struct {
	habitRepo      repository.HabitRepository
	completionRepo repository.CompletionRepository
	aggregator     *stats.Aggregator
	publisher      feed.Publisher // optional

	onSyncError func(error)

	now    func() time.Time
	launch func(func())

	mu          sync.Mutex
	habits      []*entity.Habit
	completions map[string][]*entity.Completion // keyed by "YYYY-MM-DD"
	pending     map[string]struct{}             // temporary ids of unacknowledged optimistic creates
	unsubs      []repository.UnsubscribeFunc
}

// New creates a new store with injected repository collaborators.
// The feed publisher may be nil.
func New(habitRepo repository.HabitRepository, completionRepo repository.CompletionRepository,
	aggregator *stats.Aggregator, publisher feed.Publisher) *Store {
	return &Store{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		aggregator:     aggregator,
		publisher:      publisher,
		now:            time.Now,
		launch:         func(fn func()) { go fn() },
		completions:    make(map[string][]*entity.Completion),
		pending:        make(map[string]struct{}),
	}
}

// SetSyncErrorHandler registers a callback for background sync failures
// that the error policy surfaces (habit create and update). Delete and
// stats failures are logged only.
func (s *Store) SetSyncErrorHandler(fn func(error)) {
	s.onSyncError = fn
}

// Load replaces the local habit list with the repository's current state
func (s *Store) Load(ctx context.Context, userID string) ([]*entity.Habit, error) {
	habits, err := s.habitRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	s.mu.Lock()
	s.habits = habits
	s.mu.Unlock()

	return habits, nil
}

// LoadCompletions fetches and caches the user's completions for one date
func (s *Store) LoadCompletions(ctx context.Context, userID, date string) ([]*entity.Completion, error) {
	completions, err := s.completionRepo.QueryByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions for %s: %w", date, err)
	}

	s.mu.Lock()
	s.completions[date] = completions
	s.mu.Unlock()

	return completions, nil
}

// Start subscribes to remote habit and completion pushes for the user.
// Each push delivers an authoritative snapshot that overwrites the
// corresponding local collection.
func (s *Store) Start(ctx context.Context, userID string) error {
	unsubHabits, err := s.habitRepo.Subscribe(ctx, userID, s.mergeHabits)
	if err != nil {
		return fmt.Errorf("failed to subscribe to habits: %w", err)
	}

	unsubCompletions, err := s.completionRepo.Subscribe(ctx, userID, s.mergeCompletions)
	if err != nil {
		unsubHabits()
		return fmt.Errorf("failed to subscribe to completions: %w", err)
	}

	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsubHabits, unsubCompletions)
	s.mu.Unlock()

	return nil
}

// Close tears down the push subscriptions. In-flight background writes are
// allowed to finish; their late failures are logged only.
func (s *Store) Close() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// ClearAll drops all local state (for sign-out)
func (s *Store) ClearAll() {
	s.Close()

	s.mu.Lock()
	s.habits = nil
	s.completions = make(map[string][]*entity.Completion)
	s.pending = make(map[string]struct{})
	s.mu.Unlock()
}

// CreateHabit validates the draft, inserts an optimistic entry at the head
// of the list under a temporary id, and issues the remote create in the
// background. On acknowledgment the temporary id is swapped for the
// authoritative one in place; on failure the entry is flagged rather than
// removed, so the user's input is not silently lost.
func (s *Store) CreateHabit(ctx context.Context, userID string, draft entity.HabitDraft) (*entity.Habit, error) {
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	now := s.now()
	habit := &entity.Habit{
		ID:             uuid.NewString(), // temporary until the remote create acks
		UserID:         userID,
		Title:          draft.Title,
		Frequency:      draft.Frequency,
		CustomDays:     draft.CustomDays,
		TargetDate:     draft.TargetDate,
		CompletionType: draft.CompletionType,
		TargetValue:    draft.TargetValue,
		Unit:           draft.Unit,
		IsPublic:       draft.IsPublic,
		HasReminder:    draft.HasReminder,
		ReminderTime:   draft.ReminderTime,
		SyncStatus:     entity.SyncStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.mu.Lock()
	s.habits = append([]*entity.Habit{habit}, s.habits...)
	s.pending[habit.ID] = struct{}{}
	s.mu.Unlock()

	localID := habit.ID
	s.launch(func() { s.syncCreate(localID) })

	return habit, nil
}

// syncCreate performs the remote create for an optimistic habit and
// reconciles the temporary id with the authoritative one
func (s *Store) syncCreate(localID string) {
	s.mu.Lock()
	local := s.findLocked(localID)
	if local == nil {
		// Deleted before the create was issued
		s.mu.Unlock()
		return
	}
	remote := copyHabit(local)
	s.mu.Unlock()

	remote.ID = "" // the repository assigns the authoritative id
	remote.SyncStatus = entity.SyncStatusConfirmed

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	if err := s.habitRepo.Create(ctx, remote); err != nil {
		log.Printf("habit create sync failed for %s: %v", localID, err)
		s.mu.Lock()
		if h := s.findLocked(localID); h != nil {
			h.SyncStatus = entity.SyncStatusFailed
		}
		s.mu.Unlock()
		s.reportSyncError(&SyncError{Op: "create habit", Err: err})
		return
	}

	s.mu.Lock()
	if h := s.findLocked(localID); h != nil {
		// Swap in the authoritative id, preserving list position
		h.ID = remote.ID
		h.SyncStatus = entity.SyncStatusConfirmed
		delete(s.pending, localID)
	}
	s.mu.Unlock()
}

// UpdateHabit applies the patch to local state synchronously and issues the
// remote update in the background. Remote failure is logged and surfaced
// but local state is never reverted: this store is local-wins.
func (s *Store) UpdateHabit(ctx context.Context, habitID string, patch entity.HabitPatch) error {
	s.mu.Lock()
	habit := s.findLocked(habitID)
	if habit == nil {
		s.mu.Unlock()
		return &ValidationError{Field: "habitId", Reason: "unknown habit"}
	}
	patch.Apply(habit)
	habit.UpdatedAt = s.now()
	confirmed := habit.SyncStatus == entity.SyncStatusConfirmed
	s.mu.Unlock()

	if !confirmed {
		// The entry has no authoritative id yet; the in-flight create
		// carries the patched fields instead
		return nil
	}

	s.launch(func() { s.syncPatch("update habit", habitID, patch, true) })
	return nil
}

// DeleteHabit removes the habit locally and issues the remote delete in the
// background. Delete is fire-and-forget: remote failures are logged only.
func (s *Store) DeleteHabit(ctx context.Context, habitID string) error {
	s.mu.Lock()
	var confirmed bool
	found := false
	kept := s.habits[:0]
	for _, h := range s.habits {
		if h.ID == habitID {
			found = true
			confirmed = h.SyncStatus == entity.SyncStatusConfirmed
			continue
		}
		kept = append(kept, h)
	}
	s.habits = kept
	delete(s.pending, habitID)
	s.mu.Unlock()

	if !found || !confirmed {
		return nil
	}

	s.launch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		if err := s.habitRepo.Delete(ctx, habitID); err != nil {
			log.Printf("habit delete sync failed for %s: %v", habitID, err)
		}
	})

	return nil
}

// ToggleCompletion flips today's completion for a checkbox habit: the local
// record and streak heuristic apply immediately, then the remote toggle is
// issued. The weekly stats refresh follows the remote write, since the
// aggregator counts remote completions and must see this one. The toggle is
// the one write whose failure is returned to the caller, since silent
// desync here is the most visible to the user.
//
// Mutating any date other than today is rejected as a logged no-op; past
// and future completions are immutable through this path.
func (s *Store) ToggleCompletion(ctx context.Context, habitID, userID, date string) error {
	if !s.isToday(date) {
		log.Printf("ignoring completion toggle for non-today date %s (habit %s)", date, habitID)
		return nil
	}

	s.mu.Lock()
	habit := s.findLocked(habitID)
	if habit == nil {
		s.mu.Unlock()
		return &ValidationError{Field: "habitId", Reason: "unknown habit"}
	}

	existing := s.completionLocked(habitID, date)
	var record *entity.Completion
	if existing == nil {
		record = &entity.Completion{
			ID:        uuid.NewString(),
			HabitID:   habitID,
			UserID:    userID,
			Date:      date,
			Value:     1,
			Timestamp: s.now(),
		}
		s.setCompletionLocked(record)
		s.applyStreakDeltaLocked(habit, 1, date)
	} else {
		s.removeCompletionLocked(habitID, date)
		s.applyStreakDeltaLocked(habit, -1, date)
	}

	habitsCopy := s.habitsCopyLocked()
	streakNow := habit.CurrentStreak
	lastCompleted := habit.LastCompletedDate
	title := habit.Title
	isPublic := habit.IsPublic
	s.mu.Unlock()

	s.persistStreak(habitID, streakNow, lastCompleted)

	// Local state is already applied; now the remote toggle
	var syncErr error
	if existing == nil {
		syncErr = s.completionRepo.Upsert(ctx, record)
	} else {
		syncErr = s.completionRepo.Delete(ctx, habitID, userID, date)
	}
	if syncErr != nil {
		return &SyncError{Op: "toggle completion", Err: syncErr}
	}

	// Only after the completion is remotely visible: the aggregate must
	// include the mutation that triggered it
	s.refreshStats(userID, habitsCopy)

	if existing == nil && isPublic && s.publisher != nil {
		event := feed.Event{
			HabitID:    habitID,
			HabitTitle: title,
			UserID:     userID,
			Date:       date,
			Streak:     streakNow,
			Timestamp:  record.Timestamp,
		}
		s.launch(func() {
			pctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
			defer cancel()
			if err := s.publisher.PublishCompletion(pctx, event); err != nil {
				log.Printf("feed publish failed for habit %s: %v", habitID, err)
			}
		})
	}

	return nil
}

// UpdateProgress sets the day's cumulative value for a numerical habit.
// A value <= 0 deletes the record rather than storing zero. The streak
// heuristic moves only when the value crosses the qualifying threshold,
// not on every incremental change. Same today-only restriction as
// ToggleCompletion; the remote value sync runs in the background, with the
// weekly stats refresh chained after it so the aggregate sees the new
// value, and its failures degrade to staleness.
func (s *Store) UpdateProgress(ctx context.Context, habitID, userID, date string, value float64) error {
	if !s.isToday(date) {
		log.Printf("ignoring progress update for non-today date %s (habit %s)", date, habitID)
		return nil
	}

	s.mu.Lock()
	habit := s.findLocked(habitID)
	if habit == nil {
		s.mu.Unlock()
		return &ValidationError{Field: "habitId", Reason: "unknown habit"}
	}

	existing := s.completionLocked(habitID, date)
	wasQualifying := schedule.IsQualifying(habit, existing)

	var record *entity.Completion
	if value <= 0 {
		s.removeCompletionLocked(habitID, date)
	} else {
		record = &entity.Completion{
			ID:        uuid.NewString(),
			HabitID:   habitID,
			UserID:    userID,
			Date:      date,
			Value:     value,
			Timestamp: s.now(),
		}
		if existing != nil {
			record.ID = existing.ID
		}
		s.setCompletionLocked(record)
	}

	nowQualifying := schedule.IsQualifying(habit, record)
	streakChanged := false
	if nowQualifying != wasQualifying {
		if nowQualifying {
			s.applyStreakDeltaLocked(habit, 1, date)
		} else {
			s.applyStreakDeltaLocked(habit, -1, date)
		}
		streakChanged = true
	}

	habitsCopy := s.habitsCopyLocked()
	streakNow := habit.CurrentStreak
	lastCompleted := habit.LastCompletedDate
	s.mu.Unlock()

	if streakChanged {
		s.persistStreak(habitID, streakNow, lastCompleted)
	}

	s.launch(func() {
		sctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		var err error
		if value <= 0 {
			err = s.completionRepo.Delete(sctx, habitID, userID, date)
		} else {
			err = s.completionRepo.Upsert(sctx, record)
		}
		if err != nil {
			log.Printf("progress sync failed for habit %s on %s: %v", habitID, date, err)
			return
		}
		s.refreshStats(userID, habitsCopy)
	})

	return nil
}

// CheckStreaks is the periodic reconciliation pass correcting heuristic
// drift: it verifies yesterday against the authoritative completion history
// and resets the streak of any habit that was scheduled yesterday but has
// no qualifying completion. One-time habits reset unconditionally; they
// never accrue a multi-day streak. The pass is idempotent and only ever
// moves streaks down.
func (s *Store) CheckStreaks(ctx context.Context, userID string) error {
	yesterday := s.now().AddDate(0, 0, -1)
	yesterdayStr := dateutil.FormatDate(yesterday)

	completions, err := s.completionRepo.QueryByDate(ctx, userID, yesterdayStr)
	if err != nil {
		return fmt.Errorf("failed to query yesterday's completions: %w", err)
	}

	byHabit := make(map[string]*entity.Completion, len(completions))
	for _, c := range completions {
		byHabit[c.HabitID] = c
	}

	s.mu.Lock()
	var resets []string
	for _, h := range s.habits {
		if h.CurrentStreak == 0 {
			continue
		}
		if h.IsOneTime() {
			h.CurrentStreak = 0
			h.LastCompletedDate = ""
			resets = append(resets, h.ID)
			continue
		}
		if !schedule.IsScheduled(h, yesterday) {
			// An idle day leaves the streak intact
			continue
		}
		if !schedule.IsQualifying(h, byHabit[h.ID]) {
			h.CurrentStreak = 0
			h.LastCompletedDate = ""
			resets = append(resets, h.ID)
		}
	}
	s.mu.Unlock()

	for _, habitID := range resets {
		log.Printf("streak verification reset habit %s (missed %s)", habitID, yesterdayStr)
		s.persistStreak(habitID, 0, "")
	}

	return nil
}

// RecalculateStreak replaces the habit's cached streak with the
// authoritative value derived from its full remote completion history
func (s *Store) RecalculateStreak(ctx context.Context, habitID, userID string) (int, error) {
	s.mu.Lock()
	habit := s.findLocked(habitID)
	if habit == nil {
		s.mu.Unlock()
		return 0, &ValidationError{Field: "habitId", Reason: "unknown habit"}
	}
	snapshot := copyHabit(habit)
	s.mu.Unlock()

	history, err := s.completionRepo.QueryByHabit(ctx, habitID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to query completion history: %w", err)
	}

	value := streak.Calculate(snapshot, history, s.now())

	s.mu.Lock()
	if h := s.findLocked(habitID); h != nil {
		h.CurrentStreak = value
	}
	s.mu.Unlock()

	s.persistStreak(habitID, value, snapshot.LastCompletedDate)
	return value, nil
}

// LongestStreak derives the habit's longest historical run from its full
// remote completion history. Read-only; the cached current streak is
// untouched.
func (s *Store) LongestStreak(ctx context.Context, habitID, userID string) (int, error) {
	s.mu.Lock()
	habit := s.findLocked(habitID)
	if habit == nil {
		s.mu.Unlock()
		return 0, &ValidationError{Field: "habitId", Reason: "unknown habit"}
	}
	snapshot := copyHabit(habit)
	s.mu.Unlock()

	history, err := s.completionRepo.QueryByHabit(ctx, habitID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to query completion history: %w", err)
	}

	return streak.Longest(snapshot, history), nil
}

// mergeHabits replaces the local list with an authoritative snapshot.
// Habits still mid optimistic create keep their local entries until the
// remote create reconciles them by id.
func (s *Store) mergeHabits(snapshot []*entity.Habit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var retained []*entity.Habit
	for _, h := range s.habits {
		if _, ok := s.pending[h.ID]; ok {
			retained = append(retained, h)
		}
	}
	s.habits = append(retained, snapshot...)
}

// mergeCompletions rebuilds the date-indexed map from an authoritative
// snapshot. Each date bucket is replaced wholesale, never merged record by
// record.
func (s *Store) mergeCompletions(snapshot []*entity.Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string][]*entity.Completion, len(snapshot))
	for _, c := range snapshot {
		m[c.Date] = append(m[c.Date], c)
	}
	s.completions = m
}

// Habits returns a copy of the habit list, newest first
func (s *Store) Habits() []*entity.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.habitsCopyLocked()
}

// HabitsFor returns the habits scheduled on the given date
func (s *Store) HabitsFor(date time.Time) []*entity.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scheduled []*entity.Habit
	for _, h := range s.habits {
		if schedule.IsScheduled(h, date) {
			scheduled = append(scheduled, h)
		}
	}
	return scheduled
}

// IsCompleted reports whether the habit has a completion record for the date
func (s *Store) IsCompleted(habitID, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completionLocked(habitID, date) != nil
}

// ValueFor returns the recorded progress value for the habit on the date,
// or 0 when absent
func (s *Store) ValueFor(habitID, date string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.completionLocked(habitID, date); c != nil {
		return c.Value
	}
	return 0
}

// StatsFor returns the day's completed count, scheduled count and
// completion percentage
func (s *Store) StatsFor(date time.Time) (completed, total, percentage int) {
	dateStr := dateutil.FormatDate(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.habits {
		if !schedule.IsScheduled(h, date) {
			continue
		}
		total++
		if schedule.IsQualifying(h, s.completionLocked(h.ID, dateStr)) {
			completed++
		}
	}
	return completed, total, entity.Percent(completed, total)
}

// isToday is the shared temporal guard for completion mutations. It uses
// the same local-date formatter that keys persisted completions, so a
// toggle near midnight can never write under one date string and read back
// under another.
func (s *Store) isToday(date string) bool {
	return date == dateutil.FormatDate(s.now())
}

// applyStreakDeltaLocked applies the cheap optimistic streak heuristic:
// +1 on completion, -1 floored at zero on un-completion. Recomputing the
// real streak needs a remote history read, so the heuristic keeps the UI
// responsive and the verification pass reconciles any drift.
func (s *Store) applyStreakDeltaLocked(h *entity.Habit, delta int, date string) {
	h.CurrentStreak += delta
	if h.CurrentStreak < 0 {
		h.CurrentStreak = 0
	}
	if delta > 0 {
		h.LastCompletedDate = date
	} else if h.LastCompletedDate == date {
		h.LastCompletedDate = ""
	}
	h.UpdatedAt = s.now()
}

// persistStreak writes the cached streak value to the habit collection in
// the background; failures are logged only
func (s *Store) persistStreak(habitID string, value int, lastCompleted string) {
	s.launch(func() {
		patch := entity.HabitPatch{
			CurrentStreak:     &value,
			LastCompletedDate: &lastCompleted,
		}
		s.syncPatch("persist streak", habitID, patch, false)
	})
}

// refreshStats recomputes the weekly aggregate in the background. The
// leaderboard tolerates staleness, so failures are logged and swallowed and
// the already-applied completion mutation is never rolled back.
func (s *Store) refreshStats(userID string, habits []*entity.Habit) {
	s.launch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		if err := s.aggregator.Refresh(ctx, userID, habits, s.now()); err != nil {
			log.Printf("weekly stats refresh failed for user %s: %v", userID, err)
		}
	})
}

// syncPatch issues a remote habit update; surface controls whether the
// failure reaches the sync error handler in addition to the log
func (s *Store) syncPatch(op, habitID string, patch entity.HabitPatch, surface bool) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	if err := s.habitRepo.Update(ctx, habitID, patch); err != nil {
		log.Printf("%s sync failed for %s: %v", op, habitID, err)
		if surface {
			s.reportSyncError(&SyncError{Op: op, Err: err})
		}
	}
}

func (s *Store) reportSyncError(err error) {
	if s.onSyncError != nil {
		s.onSyncError(err)
	}
}

func (s *Store) findLocked(habitID string) *entity.Habit {
	for _, h := range s.habits {
		if h.ID == habitID {
			return h
		}
	}
	return nil
}

func (s *Store) completionLocked(habitID, date string) *entity.Completion {
	for _, c := range s.completions[date] {
		if c.HabitID == habitID {
			return c
		}
	}
	return nil
}

// setCompletionLocked replaces the date bucket with a new list containing
// the record; buckets are rewritten per date, never patched in place
func (s *Store) setCompletionLocked(record *entity.Completion) {
	bucket := make([]*entity.Completion, 0, len(s.completions[record.Date])+1)
	for _, c := range s.completions[record.Date] {
		if c.HabitID != record.HabitID {
			bucket = append(bucket, c)
		}
	}
	s.completions[record.Date] = append(bucket, record)
}

func (s *Store) removeCompletionLocked(habitID, date string) {
	bucket := make([]*entity.Completion, 0, len(s.completions[date]))
	for _, c := range s.completions[date] {
		if c.HabitID != habitID {
			bucket = append(bucket, c)
		}
	}
	if len(bucket) == 0 {
		delete(s.completions, date)
		return
	}
	s.completions[date] = bucket
}

func (s *Store) habitsCopyLocked() []*entity.Habit {
	habits := make([]*entity.Habit, len(s.habits))
	copy(habits, s.habits)
	return habits
}

func copyHabit(h *entity.Habit) *entity.Habit {
	clone := *h
	if len(h.CustomDays) > 0 {
		clone.CustomDays = append([]int(nil), h.CustomDays...)
	}
	return &clone
}

// validateDraft enforces the required-field rules per frequency and
// completion type before any local or remote mutation happens
func validateDraft(d *entity.HabitDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	switch d.Frequency {
	case entity.FrequencyDaily, entity.FrequencyWeekly:
	case entity.FrequencyCustom:
		if len(d.CustomDays) == 0 {
			return &ValidationError{Field: "customDays", Reason: "required for custom frequency"}
		}
		for _, day := range d.CustomDays {
			if day < 0 || day > 6 {
				return &ValidationError{Field: "customDays", Reason: "weekday indices must be 0-6"}
			}
		}
	case entity.FrequencyOneTime:
		if d.TargetDate == "" {
			return &ValidationError{Field: "targetDate", Reason: "required for one-time frequency"}
		}
		if _, err := dateutil.ParseDate(d.TargetDate, time.UTC); err != nil {
			return &ValidationError{Field: "targetDate", Reason: "must be YYYY-MM-DD"}
		}
	default:
		return &ValidationError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", d.Frequency)}
	}

	switch d.CompletionType {
	case entity.CompletionTypeCheckbox:
	case entity.CompletionTypeNumerical:
		if d.TargetValue <= 0 {
			return &ValidationError{Field: "targetValue", Reason: "must be positive for numerical habits"}
		}
		if strings.TrimSpace(d.Unit) == "" {
			return &ValidationError{Field: "unit", Reason: "required for numerical habits"}
		}
	default:
		return &ValidationError{Field: "completionType", Reason: fmt.Sprintf("unknown completion type %q", d.CompletionType)}
	}

	return nil
}
