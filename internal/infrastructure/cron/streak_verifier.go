package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"habit-sync/internal/store"

	"github.com/robfig/cron/v3"
)

// StreakVerifier periodically reruns the authoritative streak check so the
// optimistic heuristic cannot drift unchecked.
type StreakVerifier struct {
	store    *store.Store
	userID   string
	cron     *cron.Cron
	interval time.Duration
}

// NewStreakVerifier creates a new streak verifier for the signed-in user
func NewStreakVerifier(st *store.Store, userID string, checkInterval time.Duration) *StreakVerifier {
	return &StreakVerifier{
		store:    st,
		userID:   userID,
		cron:     cron.New(),
		interval: checkInterval,
	}
}

// Start starts the streak verifier
func (v *StreakVerifier) Start() error {
	cronExpr := fmt.Sprintf("@every %s", v.interval.String())

	log.Printf("Starting streak verifier with interval: %s", v.interval)

	_, err := v.cron.AddFunc(cronExpr, func() {
		v.verify()
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	v.cron.Start()
	log.Println("Streak verifier started successfully")

	return nil
}

// Stop stops the streak verifier
func (v *StreakVerifier) Stop() {
	log.Println("Stopping streak verifier...")
	ctx := v.cron.Stop()
	<-ctx.Done()
	log.Println("Streak verifier stopped")
}

// verify runs one reconciliation pass
func (v *StreakVerifier) verify() {
	log.Println("Running streak verification...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := v.store.CheckStreaks(ctx, v.userID); err != nil {
		log.Printf("Error verifying streaks: %v", err)
		return
	}

	log.Println("Streak verification completed successfully")
}
