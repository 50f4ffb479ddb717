package history

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/todomon/internal/router"
	"github.com/abhisek/todomon/internal/store"
)

func TestHistoryLoadsEvents(t *testing.T) {
	repo := store.NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.AppendEvent(ctx, store.Event{Username: "ash", Kind: store.EventTaskCompleted, Detail: "stretch (+10)"}))
	require.NoError(t, repo.AppendEvent(ctx, store.Event{Username: "ash", Kind: store.EventEvolved, Detail: "1 -> 2"}))
	require.NoError(t, repo.AppendEvent(ctx, store.Event{Username: "misty", Kind: store.EventLogin}))

	s := New(repo, "ash")
	assert.Contains(t, s.View(80, 20), "Loading")

	s.Update(s.Init()())
	view := s.View(80, 20)
	assert.Contains(t, view, "stretch (+10)")
	assert.Contains(t, view, "evolved")
	assert.NotContains(t, view, "logged in")
}

func TestHistoryEmpty(t *testing.T) {
	s := New(store.NewMemoryRepo(), "ash")
	s.Update(s.Init()())
	assert.Contains(t, s.View(80, 20), "Nothing here yet")
}

func TestHistoryEscPops(t *testing.T) {
	s := New(store.NewMemoryRepo(), "ash")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestDescribeCoversAllKinds(t *testing.T) {
	kinds := []store.EventKind{
		store.EventLogin, store.EventLogout, store.EventTaskAdded, store.EventTaskCompleted,
		store.EventTaskReset, store.EventEvolved, store.EventReassigned,
	}
	for _, k := range kinds {
		assert.NotEqual(t, string(k), Describe(k), "kind %s has no label", k)
	}
}
