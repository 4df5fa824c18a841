package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Equal(t, dbPath, s.Path())
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"sessions", "events"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	sess, err := s.Sessions().Start(context.Background(), "noop")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Sessions().Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "noop", got.Backend)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.Sessions().Start(ctx, "robotgo")
	require.NoError(t, err)

	_, err = uuid.Parse(sess.ID)
	assert.NoError(t, err)

	got, err := s.Sessions().Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "robotgo", got.Backend)
	assert.Nil(t, got.EndedAt)

	require.NoError(t, s.Sessions().End(ctx, sess.ID))

	got, err = s.Sessions().Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndedAt)
	assert.False(t, got.EndedAt.Before(got.StartedAt))

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Sessions().Get(ctx, "missing")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.ErrorIs(t, s.Sessions().End(ctx, "missing"), ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		_, err := s.Sessions().Start(ctx, "noop")
		require.NoError(t, err)

		sessions, err := s.Sessions().List(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, sessions, 2)

		limited, err := s.Sessions().List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.Sessions().Start(ctx, "robotgo")
	require.NoError(t, err)
	second, err := s.Sessions().Start(ctx, "robotgo")
	require.NoError(t, err)

	j := s.Journal(first.ID)
	assert.Equal(t, first.ID, j.SessionID())
	require.NoError(t, j.RecordAction(ctx, "click", 10, 20, nil))
	require.NoError(t, j.RecordAction(ctx, "minimize", 30, 40, errors.New("no active window")))
	require.NoError(t, j.RecordAction(ctx, "click", 50, 60, nil))
	require.NoError(t, s.Journal(second.ID).RecordAction(ctx, "close", 1, 2, nil))

	t.Run("by session in order", func(t *testing.T) {
		events, err := s.Events().BySession(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, events, 3)

		assert.Equal(t, "click", events[0].Kind)
		assert.Equal(t, 10, events[0].X)
		assert.Equal(t, "minimize", events[1].Kind)
		assert.Equal(t, "no active window", events[1].Error)
		assert.Empty(t, events[2].Error)
		assert.False(t, events[0].CreatedAt.IsZero())
	})

	t.Run("recent newest first", func(t *testing.T) {
		events, err := s.Events().Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, "close", events[0].Kind)
		assert.Equal(t, second.ID, events[0].SessionID)
		assert.Greater(t, events[0].ID, events[1].ID)
	})

	t.Run("counts", func(t *testing.T) {
		counts, err := s.Events().Counts(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"click": 2, "minimize": 1}, counts)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		err := s.Events().Record(ctx, &Event{SessionID: first.ID, Kind: "move"})
		assert.Error(t, err)
	})

	t.Run("rejects unknown session", func(t *testing.T) {
		err := s.Events().Record(ctx, &Event{SessionID: "missing", Kind: "click"})
		assert.Error(t, err)
	})
}

func TestEvents_CascadeOnSessionDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.Sessions().Start(ctx, "noop")
	require.NoError(t, err)
	require.NoError(t, s.Journal(sess.ID).RecordAction(ctx, "click", 0, 0, nil))

	_, err = s.DB().Exec("DELETE FROM sessions WHERE id = ?", sess.ID)
	require.NoError(t, err)

	events, err := s.Events().BySession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}
