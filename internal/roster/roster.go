package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"

	"github.com/abhisek/todomon/internal/store"
)

// DefaultFileName is the roster cache written by the generator.
const DefaultFileName = "base_ids.json"

// fallbackIDs is used when the cache is missing or unreadable.
var fallbackIDs = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// Roster is the list of base creatures eligible for random assignment.
type Roster struct {
	ids      []int
	fallback bool
}

// New creates a roster from explicit ids.
func New(ids []int) *Roster {
	return &Roster{ids: normalize(ids)}
}

// Fallback returns the built-in roster.
func Fallback() *Roster {
	return &Roster{ids: slices.Clone(fallbackIDs), fallback: true}
}

// Load reads the roster cache at path. A missing, corrupt or empty cache
// degrades to the built-in fallback and is logged, never returned.
func Load(path string, logger zerolog.Logger) *Roster {
	ids, err := read(path)
	if err != nil {
		ev := logger.Warn()
		if errors.Is(err, fs.ErrNotExist) {
			ev = logger.Info()
		}
		ev.Err(err).Str("path", path).Msg("using fallback roster")
		return Fallback()
	}
	if len(ids) == 0 {
		logger.Warn().Str("path", path).Msg("roster cache is empty, using fallback roster")
		return Fallback()
	}
	logger.Debug().Str("path", path).Int("size", len(ids)).Msg("roster loaded")
	return New(ids)
}

// Candidates returns a copy of the eligible ids.
func (r *Roster) Candidates() []int {
	return slices.Clone(r.ids)
}

// IsFallback reports whether the built-in list is in use.
func (r *Roster) IsFallback() bool {
	return r.fallback
}

// Save writes ids to path as an indented JSON array, atomically.
func Save(path string, ids []int) error {
	b, err := json.MarshalIndent(normalize(ids), "", "    ")
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	b = append(b, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create roster dir: %w", err)
	}
	if err := store.WriteFileAtomic(path, b); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}

func read(path string) ([]int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return normalize(ids), nil
}

// normalize sorts, dedupes and drops non-positive ids.
func normalize(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
