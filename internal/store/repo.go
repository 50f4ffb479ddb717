package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/todomon/internal/progression"
	"github.com/abhisek/todomon/internal/tasks"
)

// UserSave is the persisted state of one user. The JSON field names are the
// on-disk format and must not change.
type UserSave struct {
	XP               int          `json:"xp"`
	Level            int          `json:"level"`
	CurrentPokemonID int          `json:"current_pokemon_id"`
	Tasks            []tasks.Task `json:"tasks"`
}

// Validate checks the invariants every stored save must satisfy.
func (s UserSave) Validate() error {
	if s.XP < 0 {
		return fmt.Errorf("xp %d is negative", s.XP)
	}
	if s.Level < 1 {
		return fmt.Errorf("level %d is below 1", s.Level)
	}
	if s.CurrentPokemonID < 1 {
		return fmt.Errorf("current_pokemon_id %d is not positive", s.CurrentPokemonID)
	}
	if t := progression.ThresholdFor(s.Level); s.XP >= t {
		return fmt.Errorf("xp %d reaches the level %d threshold %d", s.XP, s.Level, t)
	}
	for i, t := range s.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("task %d has no name", i)
		}
	}
	return nil
}

// UserRepo persists user saves keyed by username.
type UserRepo interface {
	// Save stores the save for username, replacing any previous one. A
	// failed save leaves the previous save intact.
	Save(ctx context.Context, username string, save UserSave) error

	// Load returns the save for username. It returns an error wrapping
	// ErrNotFound for unknown users and ErrCorrupt for unreadable data.
	Load(ctx context.Context, username string) (*UserSave, error)
}

// EventKind classifies an entry in the event log.
type EventKind string

const (
	EventLogin         EventKind = "login"
	EventLogout        EventKind = "logout"
	EventTaskAdded     EventKind = "task_added"
	EventTaskCompleted EventKind = "task_completed"
	EventTaskReset     EventKind = "task_reset"
	EventEvolved       EventKind = "evolved"
	EventReassigned    EventKind = "reassigned"
)

// Event is one entry in a user's history.
type Event struct {
	ID        string
	Sequence  int64
	SessionID string
	Username  string
	Kind      EventKind
	Detail    string
	CreatedAt time.Time
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendEvent records an event. ID and CreatedAt are filled in when empty.
	AppendEvent(ctx context.Context, ev Event) error

	// RecentEvents returns up to limit events for username, newest first.
	RecentEvents(ctx context.Context, username string, limit int) ([]Event, error)
}

// ValidateUsername rejects names that cannot be used as a storage key.
func ValidateUsername(username string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	case username == "." || username == "..":
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	case strings.ContainsAny(username, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidUsername, username)
	}
	return nil
}
