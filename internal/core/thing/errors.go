package thing

import "fmt"

// PersistenceError reports that a parsed Thing could not be stored.
// It is logged by the scheduler and never returned to callers.
type PersistenceError struct {
	BggID string
	Stage string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("thing %s: %s: %v", e.BggID, e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
