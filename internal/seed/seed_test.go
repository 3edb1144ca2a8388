package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/starweeb/internal/engine"
	"github.com/roach88/starweeb/internal/store"
	"github.com/roach88/starweeb/internal/testutil"
)

func newEngine() *engine.Engine {
	return engine.New(store.NewMemory(),
		engine.WithClock(testutil.NewStepClock(1_700_000_000_000, 1)),
		engine.WithIDs(testutil.NewSequenceGenerator("id")),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestRun_CreatesUsersPostsAndGroups(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	rep, err := Run(ctx, e, Options{Users: 5, PostsPerUser: 2, Seed: 42})
	require.NoError(t, err)

	assert.Len(t, rep.Users, 5)
	assert.Equal(t, 10, rep.Posts)
	assert.True(t, rep.GroupsPersisted)

	users, err := e.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)
	seen := map[string]bool{}
	for _, u := range users {
		assert.True(t, u.IsAdult(), "seeded users are adults")
		assert.NotContains(t, u.Username, " ")
		assert.False(t, seen[u.Username], "usernames are unique")
		seen[u.Username] = true
	}

	feed, err := e.Feed(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 10)

	groups, err := e.Repositories().Groups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, len(engine.DefaultGroups()))
}

func TestRun_SameSeedSameUsernames(t *testing.T) {
	ctx := context.Background()
	a, err := Run(ctx, newEngine(), Options{Users: 3, Seed: 7})
	require.NoError(t, err)
	b, err := Run(ctx, newEngine(), Options{Users: 3, Seed: 7})
	require.NoError(t, err)

	for i := range a.Users {
		assert.Equal(t, a.Users[i].Username, b.Users[i].Username)
	}
}

func TestRun_SecondRunKeepsExistingGroups(t *testing.T) {
	ctx := context.Background()
	e := newEngine()

	_, err := Run(ctx, e, Options{Users: 1, Seed: 1})
	require.NoError(t, err)
	rep, err := Run(ctx, e, Options{Users: 1, Seed: 2})
	require.NoError(t, err)
	assert.False(t, rep.GroupsPersisted)
}

func TestRun_RejectsNegativeCounts(t *testing.T) {
	_, err := Run(context.Background(), newEngine(), Options{Users: -1})
	assert.Error(t, err)
}
