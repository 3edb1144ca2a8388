package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/textgen"
)

func TestCreatePost_StatusAndBlog(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	u := register(t, e, "tom", 30)

	status, err := e.CreatePost(ctx, SessionFor(u), "feeling neon", "")
	require.NoError(t, err)
	assert.Equal(t, model.PostStatus, status.Type)
	assert.Empty(t, status.Title)

	blog, err := e.CreatePost(ctx, SessionFor(u), "long read", "  My Day ")
	require.NoError(t, err)
	assert.Equal(t, model.PostBlog, blog.Type)
	assert.Equal(t, "My Day", blog.Title)

	feed, err := e.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, blog.ID, feed[0].ID)

	_, err = e.CreatePost(ctx, SessionFor(u), "\t", "title")
	assert.Equal(t, CodeEmptyText, ErrorCode(err))

	_, err = e.CreatePost(ctx, Session{}, "x", "")
	assert.True(t, IsNotFound(err))
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	author := register(t, e, "author", 30)
	fan := register(t, e, "fan", 30)
	p, err := e.CreatePost(ctx, SessionFor(author), "hi", "")
	require.NoError(t, err)

	liked, err := e.ToggleLike(ctx, SessionFor(fan), p.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	posts, err := e.PostsBy(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fan.ID}, posts[0].Likes)

	liked, err = e.ToggleLike(ctx, SessionFor(fan), p.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	posts, err = e.PostsBy(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, posts[0].Likes)

	_, err = e.ToggleLike(ctx, SessionFor(fan), "ghost")
	assert.True(t, IsNotFound(err))
}

func TestComment_NotifiesOtherAuthor(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	author := register(t, e, "author", 30)
	fan := register(t, e, "fan", 30)
	p, err := e.CreatePost(ctx, SessionFor(author), "hi", "")
	require.NoError(t, err)

	_, err = e.Comment(ctx, SessionFor(author), p.ID, "my own")
	require.NoError(t, err)
	c, err := e.Comment(ctx, SessionFor(fan), p.ID, "nice")
	require.NoError(t, err)

	posts, err := e.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, posts[0].Comments, 2)
	assert.Equal(t, c.ID, posts[0].Comments[1].ID, "comments append")

	notes, err := e.NotificationsFor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyComment, notes[0].Type)
	assert.Equal(t, fan.ID, notes[0].FromUserID)

	_, err = e.Comment(ctx, SessionFor(fan), p.ID, " ")
	assert.Equal(t, CodeEmptyText, ErrorCode(err))
	_, err = e.Comment(ctx, SessionFor(fan), "ghost", "x")
	assert.True(t, IsNotFound(err))
}

func TestBlogPrompt(t *testing.T) {
	provider := textgen.ProviderFunc(func(context.Context, string) (string, error) { return "", nil })
	e, _ := newTestEngine(t, WithWriter(textgen.NewWriter(provider, textgen.WithLogger(quietLogger()))))
	assert.Equal(t, textgen.BlogPromptEmpty, e.BlogPrompt(context.Background(), "cats"))
}
