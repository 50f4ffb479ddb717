package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory UserRepo and EventRepo for tests. Saves are
// stored as JSON so callers never share slices with it.
type MemoryRepo struct {
	mu     sync.Mutex
	saves  map[string][]byte
	events []Event

	// SaveErr, when set, is returned by every Save without storing.
	SaveErr error

	// Saves counts successful Save calls.
	Saves int
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{saves: make(map[string][]byte)}
}

func (m *MemoryRepo) Save(_ context.Context, username string, save UserSave) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return &IOError{Op: "save", Path: username, Err: m.SaveErr}
	}
	if err := save.Validate(); err != nil {
		return fmt.Errorf("refusing to save %s: %w", username, err)
	}
	raw, err := json.Marshal(save)
	if err != nil {
		return err
	}
	m.saves[username] = raw
	m.Saves++
	return nil
}

func (m *MemoryRepo) Load(_ context.Context, username string) (*UserSave, error) {
	m.mu.Lock()
	raw, ok := m.saves[username]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	return decodeSave(raw)
}

// PutRaw stores raw bytes as the save for username, bypassing validation.
func (m *MemoryRepo) PutRaw(username string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[username] = raw
}

func (m *MemoryRepo) AppendEvent(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	ev.Sequence = int64(len(m.events) + 1)
	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryRepo) RecentEvents(_ context.Context, username string, limit int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, ev := range m.events {
		if ev.Username == username {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Kinds returns the kinds of all events for username, oldest first.
func (m *MemoryRepo) Kinds(username string) []EventKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kinds []EventKind
	for _, ev := range m.events {
		if ev.Username == username {
			kinds = append(kinds, ev.Kind)
		}
	}
	return kinds
}
