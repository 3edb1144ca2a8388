package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/starweeb/internal/model"
)

func countMatches(t *testing.T, e *Engine, a, b string) int {
	t.Helper()
	matches, err := e.Repositories().Matches.List(context.Background())
	require.NoError(t, err)
	n := 0
	for _, m := range matches {
		if m.Pairs(a, b) {
			n++
		}
	}
	return n
}

func TestRecordCrush_Symmetry(t *testing.T) {
	orders := []struct {
		name  string
		calls func(a, b string) [][2]string
	}{
		{"a then b", func(a, b string) [][2]string { return [][2]string{{a, b}, {b, a}} }},
		{"b then a", func(a, b string) [][2]string { return [][2]string{{b, a}, {a, b}} }},
		{"repeats", func(a, b string) [][2]string {
			return [][2]string{{a, b}, {a, b}, {b, a}, {b, a}, {a, b}, {b, a}}
		}},
	}

	for _, tt := range orders {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e, _ := newTestEngine(t)
			a := register(t, e, "a", 25)
			b := register(t, e, "b", 25)

			created := 0
			for _, c := range tt.calls(a.ID, b.ID) {
				res, err := e.RecordCrush(ctx, c[0], c[1])
				require.NoError(t, err)
				if res != nil {
					created++
				}
			}
			assert.Equal(t, 1, created)
			assert.Equal(t, 1, countMatches(t, e, a.ID, b.ID))
		})
	}
}

func TestRecordCrush_Idempotent(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, err := e.RecordCrush(ctx, "a", "b")
	require.NoError(t, err)
	_, err = e.RecordCrush(ctx, "a", "b")
	require.NoError(t, err)

	crushes, err := e.Repositories().Crushes.List(ctx)
	require.NoError(t, err)
	require.Len(t, crushes, 1)
	assert.Equal(t, "a", crushes[0].FromID)
	assert.Equal(t, "b", crushes[0].ToID)
}

func TestRecordCrush_MatchedIsTerminal(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	require.NoError(t, e.Repositories().Matches.Save(ctx, []model.Match{
		{ID: "m1", UserIDs: model.CanonicalPair("a", "b"), Timestamp: 1},
	}))

	res, err := e.RecordCrush(ctx, "b", "a")
	require.NoError(t, err)
	assert.Nil(t, res)

	crushes, err := e.Repositories().Crushes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, crushes)
}

func TestRecordCrush_SelfRejected(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.RecordCrush(context.Background(), "a", "a")
	assert.Equal(t, CodeSelfCrush, ErrorCode(err))
}

func TestRecordCrush_CanonicalPairAndNotification(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	a := register(t, e, "zed", 25)
	b := register(t, e, "amy", 25)

	_, err := e.RecordCrush(ctx, b.ID, a.ID)
	require.NoError(t, err)
	res, err := e.RecordCrush(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, model.CanonicalPair(a.ID, b.ID), res.Match.UserIDs)
	assert.Equal(t, b.ID, res.Partner.ID)

	notes, err := e.NotificationsFor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyMatch, notes[0].Type)
	assert.Equal(t, b.ID, notes[0].FromUserID)
	assert.Equal(t, MatchMessage(b.DisplayName), notes[0].Message)
	assert.False(t, notes[0].Read)

	partnerNotes, err := e.NotificationsFor(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, partnerNotes, 1)
	assert.Equal(t, MatchMessage(a.DisplayName), partnerNotes[0].Message)

	all, err := e.Repositories().Notifications.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, all[0].UserID, "initiator's notice is newest")
}

// A (20) crushes on B (19); no match. B crushes back; one match, and each
// of A and B holds exactly one match notification.
func TestScenario_AdultsMatch(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	a := register(t, e, "a", 20)
	b := register(t, e, "b", 19)

	res, err := e.SendCrush(ctx, SessionFor(a), b.ID)
	require.NoError(t, err)
	assert.Nil(t, res)

	matches, err := e.MatchesFor(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	res, err = e.SendCrush(ctx, SessionFor(b), a.ID)
	require.NoError(t, err)
	require.NotNil(t, res)

	matches, err = e.MatchesFor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, model.CanonicalPair(a.ID, b.ID), matches[0].Match.UserIDs)
	assert.Equal(t, b.ID, matches[0].Partner.ID)

	all, err := e.Repositories().Notifications.List(ctx)
	require.NoError(t, err)
	var matchNotes []model.Notification
	for _, n := range all {
		if n.Type == model.NotifyMatch {
			matchNotes = append(matchNotes, n)
		}
	}
	require.Len(t, matchNotes, 2)
	perUser := map[string]int{}
	for _, n := range matchNotes {
		perUser[n.UserID]++
	}
	assert.Equal(t, 1, perUser[a.ID])
	assert.Equal(t, 1, perUser[b.ID])
}

func TestSendCrush_Gates(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	adult := register(t, e, "adult", 30)
	minor := register(t, e, "minor", 17)

	_, err := e.SendCrush(ctx, SessionFor(minor), adult.ID)
	assert.Equal(t, CodeUnderage, ErrorCode(err))

	_, err = e.SendCrush(ctx, SessionFor(adult), minor.ID)
	assert.Equal(t, CodeUnderage, ErrorCode(err))

	_, err = e.SendCrush(ctx, SessionFor(adult), "ghost")
	assert.True(t, IsNotFound(err))

	_, err = e.SendCrush(ctx, SessionFor(adult), adult.ID)
	assert.Equal(t, CodeSelfCrush, ErrorCode(err))

	crushes, err := e.Repositories().Crushes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, crushes)
}

func TestSendCrush_ConcurrentPairMatchesOnce(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	a := register(t, e, "a", 30)
	b := register(t, e, "b", 30)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = e.SendCrush(ctx, SessionFor(a), b.ID)
		}()
		go func() {
			defer wg.Done()
			_, _ = e.SendCrush(ctx, SessionFor(b), a.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, countMatches(t, e, a.ID, b.ID))
	crushes, err := e.Repositories().Crushes.List(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(crushes), 2)
}

func TestMatchesFor_SkipsDanglingPartner(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	a := register(t, e, "a", 30)
	b := register(t, e, "b", 30)
	require.NoError(t, e.Repositories().Matches.Save(ctx, []model.Match{
		{ID: "m1", UserIDs: model.CanonicalPair(a.ID, b.ID)},
		{ID: "m2", UserIDs: model.CanonicalPair(a.ID, "deleted-user")},
	}))

	matches, err := e.MatchesFor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m1", matches[0].Match.ID)
}

func TestDatingPool(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	me := register(t, e, "me", 30)
	crushed := register(t, e, "crushed", 22)
	other := register(t, e, "other", 40)
	kid := register(t, e, "kid", 15)

	_, err := e.SendCrush(ctx, SessionFor(me), crushed.ID)
	require.NoError(t, err)

	pool, err := e.DatingPool(ctx, SessionFor(me))
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, crushed.ID, pool[0].User.ID)
	assert.True(t, pool[0].CrushSent)
	assert.False(t, pool[0].Matched)
	assert.Equal(t, other.ID, pool[1].User.ID)
	assert.False(t, pool[1].CrushSent)

	_, err = e.DatingPool(ctx, SessionFor(kid))
	assert.Equal(t, CodeUnderage, ErrorCode(err))
}
