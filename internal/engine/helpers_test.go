package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/store"
	"github.com/roach88/starweeb/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine returns a deterministic engine over a fresh memory store.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	base := []Option{
		WithClock(testutil.NewStepClock(1_700_000_000_000, 1)),
		WithIDs(testutil.NewSequenceGenerator("id")),
		WithLogger(quietLogger()),
	}
	return New(mem, append(base, opts...)...), mem
}

func register(t *testing.T, e *Engine, username string, age int) model.User {
	t.Helper()
	u, err := e.Register(context.Background(), Registration{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: "Display " + username,
		Age:         age,
	})
	require.NoError(t, err)
	return u
}
