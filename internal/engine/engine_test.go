package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/starweeb/internal/store"
	"github.com/roach88/starweeb/internal/textgen"
)

func TestEngine_NewDefaults(t *testing.T) {
	e := New(store.NewMemory())

	assert.NotNil(t, e.Repositories())
	assert.IsType(t, SystemClock{}, e.clock)
	assert.IsType(t, UUIDv7Generator{}, e.ids)
	assert.NotNil(t, e.logger)
	assert.Equal(t, textgen.BlogPromptFailed, e.BlogPrompt(context.Background(), "cats"))
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	gen := UUIDv7Generator{}
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.Generate()
		require.Len(t, id, 36)
		require.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
}

func TestSystemClock(t *testing.T) {
	assert.Greater(t, SystemClock{}.NowMillis(), int64(1_600_000_000_000))
}

func TestError_Helpers(t *testing.T) {
	err := invalid(CodeSlugTaken, "customUrl", "taken")
	wrapped := errors.Join(errors.New("ctx"), err)

	assert.Equal(t, CodeSlugTaken, ErrorCode(wrapped))
	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Contains(t, err.Error(), "field=customUrl")

	nf := notFound("user", "x")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsValidationError(nf))

	assert.Equal(t, Code(""), ErrorCode(errors.New("plain")))
	assert.False(t, IsValidationError(nil))
}
