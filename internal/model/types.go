// Package model defines the persisted starweeb records.
//
// Records are plain values. A mutation is always expressed as "read the whole
// collection, build the next collection, write it back"; nothing here holds
// pointers into another collection. Cross-record relationships are ids only.
//
// JSON field names follow the browser app so snapshots stay interchangeable.
// Timestamps are Unix milliseconds.
package model

import "slices"

// AdultAge is the minimum age for the dating features.
const AdultAge = 18

// User is a registered member.
type User struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	DisplayName   string   `json:"displayName"`
	Email         string   `json:"email"`
	Bio           string   `json:"bio"`
	Avatar        string   `json:"avatar"`
	ProfileColor  string   `json:"profileColor"`
	Friends       []string `json:"friends"`
	Following     []string `json:"following"`
	Age           int      `json:"age"`
	IsBlocked     bool     `json:"isBlocked,omitempty"`
	DatingEnabled bool     `json:"datingEnabled,omitempty"`
	CustomCSS     string   `json:"customCss,omitempty"`
	// CustomEmbed is stored and returned opaquely; sanitizing it is the
	// renderer's job.
	CustomEmbed string `json:"customEmbed,omitempty"`
	// CustomURL is the vanity slug. Empty means unset.
	CustomURL string `json:"customUrl,omitempty"`
}

// IsAdult reports whether the user may use the dating features.
func (u User) IsAdult() bool {
	return u.Age >= AdultAge
}

// PostType distinguishes short status updates from titled blog entries.
type PostType string

const (
	PostStatus PostType = "status"
	PostBlog   PostType = "blog"
)

// Post is a feed entry. Title is set iff Type is PostBlog.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Timestamp int64     `json:"timestamp"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	Type      PostType  `json:"type"`
	Title     string    `json:"title,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Bulletin is an immutable broadcast message.
type Bulletin struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId"`
	Topic     string `json:"topic"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Group is a named membership list.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	OwnerID     string   `json:"ownerId"`
	Members     []string `json:"members"`
	ImageURL    string   `json:"imageUrl"`
}

// ForumThread is a forum topic with an append-only reply list.
type ForumThread struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	AuthorID  string       `json:"authorId"`
	Category  string       `json:"category"`
	Content   string       `json:"content"`
	Timestamp int64        `json:"timestamp"`
	Replies   []ForumReply `json:"replies"`
}

// ForumReply is one reply in a thread.
type ForumReply struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Photo is a gallery item.
type Photo struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Album     string `json:"album"`
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	Timestamp int64  `json:"timestamp"`
}

// NotificationType enumerates notification kinds.
type NotificationType string

const (
	NotifyFriendRequest NotificationType = "friend_request"
	NotifyLike          NotificationType = "like"
	NotifyComment       NotificationType = "comment"
	NotifyMention       NotificationType = "mention"
	NotifyMatch         NotificationType = "match"
)

// SystemSender is the FromUserID of notifications not caused by a user.
const SystemSender = "system"

// Notification is addressed to UserID. Read is flipped by the recipient.
type Notification struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	FromUserID string           `json:"fromUserId"`
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	Timestamp  int64            `json:"timestamp"`
	Read       bool             `json:"read"`
}

// SecretMessage is a recipient-only note. FromUserID is normally empty.
type SecretMessage struct {
	ID         string `json:"id"`
	ToUserID   string `json:"toUserId"`
	FromUserID string `json:"fromUserId,omitempty"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
	IsAI       bool   `json:"isAI,omitempty"`
}

// AnonymousQuestion is asked of ToUserID. Answer and AnsweredAt are set
// together, once.
type AnonymousQuestion struct {
	ID         string `json:"id"`
	ToUserID   string `json:"toUserId"`
	Question   string `json:"question"`
	Answer     string `json:"answer,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	AnsweredAt int64  `json:"answeredAt,omitempty"`
}

// Answered reports whether the question has moved to the public archive.
func (q AnonymousQuestion) Answered() bool {
	return q.Answer != ""
}

// DatingCrush is a one-directional interest from FromID to ToID.
type DatingCrush struct {
	FromID    string `json:"fromId"`
	ToID      string `json:"toId"`
	Timestamp int64  `json:"timestamp"`
}

// Match is a confirmed mutual crush between exactly two users.
type Match struct {
	ID        string    `json:"id"`
	UserIDs   [2]string `json:"userIds"`
	Timestamp int64     `json:"timestamp"`
}

// CanonicalPair orders a and b so both members compute the same pair.
func CanonicalPair(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Includes reports whether userID is one of the matched users.
func (m Match) Includes(userID string) bool {
	return m.UserIDs[0] == userID || m.UserIDs[1] == userID
}

// Partner returns the member of the match that is not userID.
func (m Match) Partner(userID string) string {
	if m.UserIDs[0] == userID {
		return m.UserIDs[1]
	}
	return m.UserIDs[0]
}

// Pairs reports whether the match joins a and b, in either stored order.
func (m Match) Pairs(a, b string) bool {
	return CanonicalPair(m.UserIDs[0], m.UserIDs[1]) == CanonicalPair(a, b)
}

// AddToSet returns ids with id appended unless already present.
// The input slice is never modified.
func AddToSet(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return slices.Clone(ids)
	}
	return append(slices.Clone(ids), id)
}

// RemoveFromSet returns ids without id. The input slice is never modified.
func RemoveFromSet(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
