package audit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/starweeb/internal/engine"
	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/store"
	"github.com/roach88/starweeb/internal/testutil"
)

func user(id, slug string) model.User {
	return model.User{
		ID: id, Username: id, DisplayName: id, Email: id + "@example.com",
		Friends: []string{}, Following: []string{}, Age: 30, CustomURL: slug,
	}
}

func put(t *testing.T, a store.Adapter, key string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, a.Set(context.Background(), key, string(raw)))
}

func TestCheck_EmptyStore(t *testing.T) {
	report, err := Check(context.Background(), store.NewMemory())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Empty(t, report.Findings)
}

func TestCheck_EngineWrittenStateIsClean(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	e := engine.New(mem,
		engine.WithClock(testutil.NewStepClock(1, 1)),
		engine.WithIDs(testutil.NewSequenceGenerator("id")),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	a, err := e.Register(ctx, engine.Registration{Username: "a", Email: "a@example.com", DisplayName: "A", Age: 20})
	require.NoError(t, err)
	b, err := e.Register(ctx, engine.Registration{Username: "b", Email: "b@example.com", DisplayName: "B", Age: 19})
	require.NoError(t, err)
	sa, sb := engine.SessionFor(a), engine.SessionFor(b)

	_, err = e.SendCrush(ctx, sa, b.ID)
	require.NoError(t, err)
	_, err = e.SendCrush(ctx, sb, a.ID)
	require.NoError(t, err)
	_, err = e.UpdateProfile(ctx, sa, engine.ProfileUpdate{CustomURL: "tom"})
	require.NoError(t, err)
	p, err := e.CreatePost(ctx, sa, "hello", "Blog")
	require.NoError(t, err)
	_, err = e.Comment(ctx, sb, p.ID, "nice")
	require.NoError(t, err)
	q, err := e.Ask(ctx, a.ID, "why?")
	require.NoError(t, err)
	_, err = e.Answer(ctx, q.ID, "because")
	require.NoError(t, err)
	_, err = e.SendSecret(ctx, sb, a.ID, "psst")
	require.NoError(t, err)
	_, err = e.JoinGroup(ctx, sb, "g1")
	require.NoError(t, err)
	th, err := e.CreateThread(ctx, sa, "T", "", "c")
	require.NoError(t, err)
	_, err = e.Reply(ctx, sb, th.ID, "r")
	require.NoError(t, err)
	_, err = e.Login(ctx, "a")
	require.NoError(t, err)

	report, err := Check(ctx, mem)
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
}

func TestCheck_Structural(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Set(ctx, store.KeyUsers, `[{"id":"u1"}]`))
	require.NoError(t, mem.Set(ctx, store.KeyPosts, `not json`))
	require.NoError(t, mem.Set(ctx, store.KeyNotifications,
		`[{"id":"n1","userId":"u1","fromUserId":"system","type":"poke","message":"","timestamp":1,"read":false}]`))
	require.NoError(t, mem.Set(ctx, store.KeySession, `null`))

	report, err := Check(ctx, mem)
	require.NoError(t, err)
	assert.False(t, report.OK())

	byKey := map[string][]string{}
	for _, f := range report.Findings {
		byKey[f.Key] = append(byKey[f.Key], f.Code)
	}
	assert.Contains(t, byKey[store.KeyUsers], CodeSchema)
	assert.Equal(t, []string{CodeUndecodable}, byKey[store.KeyPosts])
	assert.Contains(t, byKey[store.KeyNotifications], CodeSchema)
	assert.Empty(t, byKey[store.KeySession])
}

func TestCheck_Invariants(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	put(t, mem, store.KeyUsers, []model.User{
		user("u1", "tom"), user("u2", "tom"), user("u3", "Login"), user("u4", "bad slug"),
	})
	put(t, mem, store.KeyMatches, []model.Match{
		{ID: "m1", UserIDs: [2]string{"u1", "u2"}},
		{ID: "m2", UserIDs: [2]string{"u2", "u1"}},
		{ID: "m3", UserIDs: [2]string{"u3", "u3"}},
	})
	put(t, mem, store.KeyCrushes, []model.DatingCrush{
		{FromID: "u1", ToID: "u2"}, {FromID: "u1", ToID: "u2"},
	})
	put(t, mem, store.KeyPosts, []model.Post{
		{ID: "p1", AuthorID: "u1", Likes: []string{}, Comments: []model.Comment{}, Type: model.PostBlog},
		{ID: "p2", AuthorID: "u1", Likes: []string{}, Comments: []model.Comment{}, Type: model.PostStatus, Title: "x"},
	})

	report, err := Check(ctx, mem)
	require.NoError(t, err)

	assert.Equal(t, []string{
		CodeBlogTitle, CodeCrushDuplicate, CodeMatchDuplicate, CodeMatchMalformed,
		CodeSlugDuplicate, CodeSlugFormat, CodeSlugReserved,
	}, report.Codes())
	assert.Equal(t, 0, report.Warnings())
	assert.Equal(t, 8, report.Errors())
}

func TestCheck_DanglingReferencesAreWarnings(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	u := user("u1", "")
	u.Friends = []string{"gone"}
	put(t, mem, store.KeyUsers, []model.User{u})
	put(t, mem, store.KeyMatches, []model.Match{{ID: "m1", UserIDs: [2]string{"u1", "gone"}}})
	put(t, mem, store.KeyGroups, engine.DefaultGroups())
	put(t, mem, store.KeyNotifications, []model.Notification{
		{ID: "n1", UserID: "u1", FromUserID: model.SystemSender, Type: model.NotifyMention},
	})

	report, err := Check(ctx, mem)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Warnings())
	assert.Equal(t, []string{CodeDanglingRef}, report.Codes())
}

func TestCheck_SkipsRecordChecksOnBrokenKeys(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Set(ctx, store.KeyUsers, `{"not":"a list"}`))
	put(t, mem, store.KeyMatches, []model.Match{{ID: "m1", UserIDs: [2]string{"a", "b"}}})

	report, err := Check(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, []string{CodeSchema}, report.Codes(), "no dangling warnings without a readable user list")
}
