package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyUsers, `[]`))
	require.NoError(t, s.Close())

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	_, err := OpenSQLite("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestSQLiteClose_NilDB(t *testing.T) {
	s := &SQLite{db: nil}
	assert.NoError(t, s.Close())
}

func TestSQLite_GetMissingKey(t *testing.T) {
	s := createTestStore(t)

	v, ok, err := s.Get(context.Background(), KeyPosts)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyPosts, `[{"id":"1"}]`))
	require.NoError(t, s.Set(ctx, KeyPosts, `[{"id":"2"}]`))

	v, ok, err := s.Get(ctx, KeyPosts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"2"}]`, v)
}

func TestSQLite_PreservesBytes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	raw := "[{\"content\":\"<b>héllo</b> \\u2603 \\n\"}]"
	require.NoError(t, s.Set(ctx, KeyPosts, raw))

	v, _, err := s.Get(ctx, KeyPosts)
	require.NoError(t, err)
	assert.Equal(t, raw, v)
}

func TestSQLite_SetMany(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string]string{
		KeyUsers:   `[]`,
		KeyMatches: `[{"id":"m"}]`,
	}))

	for key, want := range map[string]string{KeyUsers: `[]`, KeyMatches: `[{"id":"m"}]`} {
		v, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
}

func TestSQLite_SetManyCanceledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SetMany(ctx, map[string]string{KeyUsers: `[]`})
	require.Error(t, err)

	_, ok, err := s.Get(context.Background(), KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok, "nothing should be written when the batch fails")
}

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok, err := m.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, KeyUsers, `[]`))
	v, ok, err := m.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
	assert.Equal(t, 1, m.Len())
}

func TestSetAll_UsesBatcher(t *testing.T) {
	m := NewMemory()
	require.NoError(t, SetAll(context.Background(), m, map[string]string{KeyUsers: `[]`, KeyPosts: `[]`}))
	assert.Equal(t, 2, m.Len())
}

// plainAdapter hides Memory's SetMany so SetAll takes the sequential path.
type plainAdapter struct{ m *Memory }

func (p plainAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	return p.m.Get(ctx, key)
}

func (p plainAdapter) Set(ctx context.Context, key, value string) error {
	return p.m.Set(ctx, key, value)
}

func TestSetAll_SequentialFallback(t *testing.T) {
	m := NewMemory()
	require.NoError(t, SetAll(context.Background(), plainAdapter{m}, map[string]string{KeyUsers: `[]`, KeyPosts: `[]`}))
	assert.Equal(t, 2, m.Len())
}

func TestSnapshotKeys(t *testing.T) {
	keys := SnapshotKeys()
	assert.Len(t, keys, 12)
	assert.Contains(t, keys, KeySession)
	assert.NotContains(t, keys, KeyBackup)

	keys[0] = "mutated"
	assert.Equal(t, KeyUsers, SnapshotKeys()[0], "SnapshotKeys must return a copy")

	assert.True(t, IsSnapshotKey(KeyCrushes))
	assert.False(t, IsSnapshotKey(KeyBackup))
	assert.False(t, IsSnapshotKey("starweeb_unknown"))
}
