package badgerstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/starweeb/internal/store"
)

var _ store.Adapter = (*Store)(nil)
var _ store.Batcher = (*Store)(nil)

// TestOpenInMemory verifies in-memory database creation works.
func TestOpenInMemory(t *testing.T) {
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, store.KeyUsers, `[]`))

	v, ok, err := s.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

// TestPersistence verifies data survives a close and reopen.
func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, store.KeyPosts, `[{"id":"p1"}]`))
	require.NoError(t, s.Close())

	s, err = Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, store.KeyPosts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, v)
}

func TestGet_Missing(t *testing.T) {
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(context.Background(), store.KeyMatches)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetMany(t *testing.T) {
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.SetMany(ctx, map[string]string{
		store.KeyUsers:   `[]`,
		store.KeyCrushes: `[{"fromId":"a","toId":"b","timestamp":1}]`,
	}))

	v, ok, err := s.Get(ctx, store.KeyCrushes)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"fromId":"a","toId":"b","timestamp":1}]`, v)
}
