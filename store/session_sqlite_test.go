package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webchat-dev/webchat/core"
)

func newTestStore(t *testing.T) *SQLiteSessionStore {
	t.Helper()
	s, err := NewSQLiteSessionStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	session := core.Session{Token: "tok-abc", UserID: 7, Username: "alice"}
	require.NoError(t, s.Save(ctx, session))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session, *loaded)
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, core.Session{Token: "old", UserID: 1, Username: "alice"}))
	require.NoError(t, s.Save(ctx, core.Session{Token: "new", UserID: 2, Username: "bob"}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, core.Session{Token: "new", UserID: 2, Username: "bob"}, *loaded)
}

func TestLoadAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, core.Session{Token: "tok", UserID: 3, Username: "carol"}))
	require.NoError(t, s.Clear(ctx))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// clearing an already empty store is fine
	require.NoError(t, s.Clear(ctx))
}

// A record missing any of its parts is treated as no session at all, so a
// torn write can never resurrect half a login.
func TestPartialRecordIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, core.Session{Token: "tok", UserID: 3, Username: "carol"}))
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_state WHERE key = ?`, KeyToken)
	require.NoError(t, err)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestReopenPersists(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "state.db")

	s, err := NewSQLiteSessionStore(file)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, core.Session{Token: "tok", UserID: 9, Username: "dave"}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteSessionStore(file)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "dave", loaded.Username)
}
