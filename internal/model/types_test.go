package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPair(t *testing.T) {
	assert.Equal(t, [2]string{"a", "b"}, CanonicalPair("a", "b"))
	assert.Equal(t, [2]string{"a", "b"}, CanonicalPair("b", "a"))
}

func TestMatch_PairsEitherOrder(t *testing.T) {
	m := Match{ID: "m1", UserIDs: [2]string{"z", "a"}}

	assert.True(t, m.Pairs("a", "z"))
	assert.True(t, m.Pairs("z", "a"))
	assert.False(t, m.Pairs("a", "b"))
	assert.True(t, m.Includes("z"))
	assert.False(t, m.Includes("q"))
	assert.Equal(t, "a", m.Partner("z"))
	assert.Equal(t, "z", m.Partner("a"))
}

func TestAddToSet(t *testing.T) {
	in := []string{"a"}
	out := AddToSet(in, "b")
	assert.Equal(t, []string{"a", "b"}, out)
	assert.Equal(t, []string{"a"}, in, "input must not change")

	assert.Equal(t, []string{"a", "b"}, AddToSet(out, "a"))
}

func TestRemoveFromSet(t *testing.T) {
	in := []string{"a", "b"}
	assert.Equal(t, []string{"b"}, RemoveFromSet(in, "a"))
	assert.Equal(t, []string{"a", "b"}, in)
}

func TestQuestionAnswered(t *testing.T) {
	assert.False(t, AnonymousQuestion{}.Answered())
	assert.True(t, AnonymousQuestion{Answer: "yes", AnsweredAt: 1}.Answered())
}

func TestUser_IsAdult(t *testing.T) {
	assert.True(t, User{Age: 18}.IsAdult())
	assert.False(t, User{Age: 17}.IsAdult())
}

// Records written by the browser app must decode without losing fields.
func TestUser_DecodesBrowserShape(t *testing.T) {
	raw := `{"id":"1700000000000","username":"tom","displayName":"Tom","email":"tom@example.com",` +
		`"bio":"hi","avatar":"https://picsum.photos/seed/tom/200/200","profileColor":"#bf00ff",` +
		`"friends":[],"following":["2"],"age":30,"isBlocked":false,"datingEnabled":true,` +
		`"customCss":"body{}","customEmbed":"<iframe></iframe>","customUrl":"tom"}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	assert.Equal(t, "1700000000000", u.ID)
	assert.Equal(t, []string{"2"}, u.Following)
	assert.True(t, u.DatingEnabled)
	assert.Equal(t, "<iframe></iframe>", u.CustomEmbed)
	assert.Equal(t, "tom", u.CustomURL)
}

func TestMatch_DecodesArrayPair(t *testing.T) {
	var m Match
	require.NoError(t, json.Unmarshal([]byte(`{"id":"m","userIds":["b","a"],"timestamp":5}`), &m))
	assert.Equal(t, [2]string{"b", "a"}, m.UserIDs)
	assert.True(t, m.Pairs("a", "b"))
}
