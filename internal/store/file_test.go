package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepoRoundTrip(t *testing.T) {
	repo := NewFileRepo(filepath.Join(t.TempDir(), "users"))
	ctx := context.Background()

	want := sampleSave()
	require.NoError(t, repo.Save(ctx, "ash", want))

	got, err := repo.Load(ctx, "ash")
	require.NoError(t, err)
	assertSaveEqual(t, got, want)
}

func TestFileRepoFormat(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepo(dir)
	ctx := context.Background()

	save := UserSave{XP: 3, Level: 1, CurrentPokemonID: 4}
	require.NoError(t, repo.Save(ctx, "ash", save))

	raw, err := os.ReadFile(filepath.Join(dir, "ash.json"))
	require.NoError(t, err)
	want := "{\n  \"xp\": 3,\n  \"level\": 1,\n  \"current_pokemon_id\": 4,\n  \"tasks\": []\n}\n"
	assert.Equal(t, want, string(raw))

	// Identical input produces identical bytes.
	require.NoError(t, repo.Save(ctx, "ash", save))
	again, err := os.ReadFile(filepath.Join(dir, "ash.json"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(raw, again))
}

func TestFileRepoDueDateNull(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepo(dir)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "ash", sampleSave()))
	raw, err := os.ReadFile(filepath.Join(dir, "ash.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"due_date": null`)
	assert.Contains(t, string(raw), `"due_date": "2030-01-02"`)
}

func TestFileRepoNotFound(t *testing.T) {
	repo := NewFileRepo(t.TempDir())
	_, err := repo.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepoCorrupt(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"xp": 1,`,
		"missing level":   `{"xp": 1, "current_pokemon_id": 1, "tasks": []}`,
		"negative xp":     `{"xp": -1, "level": 1, "current_pokemon_id": 1, "tasks": []}`,
		"zero creature":   `{"xp": 0, "level": 1, "current_pokemon_id": 0, "tasks": []}`,
		"bad due date":    `{"xp": 0, "level": 1, "current_pokemon_id": 1, "tasks": [{"name": "x", "completed": false, "recurring": false, "due_date": "tomorrow"}]}`,
		"empty task name": `{"xp": 0, "level": 1, "current_pokemon_id": 1, "tasks": [{"name": "", "completed": false, "recurring": false}]}`,
		"wrong type":      `{"xp": "ten", "level": 1, "current_pokemon_id": 1}`,
		"xp at threshold": `{"xp": 150, "level": 2, "current_pokemon_id": 1, "tasks": []}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "ash.json"), []byte(body), 0o644))

			_, err := NewFileRepo(dir).Load(context.Background(), "ash")
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestFileRepoLegacySaveWithoutTasks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ash.json"),
		[]byte(`{"xp": 20, "level": 3, "current_pokemon_id": 9}`), 0o644))

	got, err := NewFileRepo(dir).Load(context.Background(), "ash")
	require.NoError(t, err)
	assert.Equal(t, 20, got.XP)
	assert.NotNil(t, got.Tasks)
	assert.Empty(t, got.Tasks)
}

func TestFileRepoRejectsBadUsername(t *testing.T) {
	repo := NewFileRepo(t.TempDir())
	err := repo.Save(context.Background(), "../escape", UserSave{Level: 1, CurrentPokemonID: 1})
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestFileRepoFailedSaveKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepo(dir)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "ash", UserSave{XP: 5, Level: 1, CurrentPokemonID: 1}))
	require.Error(t, repo.Save(ctx, "ash", UserSave{XP: -1, Level: 1, CurrentPokemonID: 1}))

	got, err := repo.Load(ctx, "ash")
	require.NoError(t, err)
	assert.Equal(t, 5, got.XP)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestIOErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := error(&IOError{Op: "write", Path: "/x", Err: inner})
	assert.ErrorIs(t, err, inner)

	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
}
