package session

import "fmt"

// SaveError reports that a change was applied in memory but could not be
// persisted. The session stays usable; the next successful save catches up.
type SaveError struct {
	Username string
	Err      error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save progress for %s: %v", e.Username, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
