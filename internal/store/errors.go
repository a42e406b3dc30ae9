package store

import "fmt"

// ValidationError rejects a malformed mutation before any local or remote
// state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SyncError reports a failed remote write after a successful local
// optimistic apply. Local state is never rolled back; convergence comes
// from the next subscription push or the streak verification pass.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: remote sync failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
