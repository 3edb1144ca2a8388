package engine

import (
	"context"
	"fmt"

	"github.com/roach88/starweeb/internal/model"
)

// MatchResult is a match seen from one member's side.
type MatchResult struct {
	Match   model.Match
	Partner model.User
}

// MatchMessage is the notification text for a new match with partnerName.
func MatchMessage(partnerName string) string {
	return fmt.Sprintf("Cosmic Resonance Found! You and %s are in sync.", partnerName)
}

// RecordCrush records a crush from fromID to toID and converts the pair
// into a Match the first time both directions exist.
//
// Per unordered pair the states are NoCrush, OneSidedCrush and Matched,
// and Matched is terminal. Repeating a crush, or sending one for an already
// matched pair, is a no-op. The returned result is non-nil only for the
// call that created the match. Both members receive a match notification,
// the initiating user's being the newest.
//
// Age gating is the caller's job; see SendCrush.
func (e *Engine) RecordCrush(ctx context.Context, fromID, toID string) (*MatchResult, error) {
	if fromID == toID {
		return nil, invalid(CodeSelfCrush, "toId", "cannot crush on yourself")
	}

	defer e.lock()()
	return e.recordCrush(ctx, fromID, toID)
}

func (e *Engine) recordCrush(ctx context.Context, fromID, toID string) (*MatchResult, error) {
	crushes, err := e.repos.Crushes.List(ctx)
	if err != nil {
		return nil, err
	}
	mirrored := false
	for _, c := range crushes {
		if c.FromID == fromID && c.ToID == toID {
			return nil, nil
		}
		if c.FromID == toID && c.ToID == fromID {
			mirrored = true
		}
	}

	if matched, err := e.matched(ctx, fromID, toID); err != nil {
		return nil, err
	} else if matched {
		return nil, nil
	}

	crushes = append(crushes, model.DatingCrush{FromID: fromID, ToID: toID, Timestamp: e.clock.NowMillis()})
	if err := e.repos.Crushes.Save(ctx, crushes); err != nil {
		return nil, err
	}
	e.logger.Debug("crush recorded", "from", fromID, "to", toID)

	if !mirrored {
		return nil, nil
	}

	// Re-read matches right before writing so a pair is matched once.
	var created *model.Match
	err = e.repos.Matches.Update(ctx, func(matches []model.Match) ([]model.Match, error) {
		for _, m := range matches {
			if m.Pairs(fromID, toID) {
				return matches, nil
			}
		}
		m := model.Match{
			ID:        e.ids.Generate(),
			UserIDs:   model.CanonicalPair(fromID, toID),
			Timestamp: e.clock.NowMillis(),
		}
		created = &m
		return append(matches, m), nil
	})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, nil
	}

	initiator, _, err := e.User(ctx, fromID)
	if err != nil {
		return nil, err
	}
	partner, _, err := e.User(ctx, toID)
	if err != nil {
		return nil, err
	}

	// The partner learns of the match too; the initiator's notice is newest.
	if err := e.notify(ctx, model.Notification{
		UserID:     toID,
		FromUserID: fromID,
		Type:       model.NotifyMatch,
		Message:    MatchMessage(displayNameOr(initiator, fromID)),
	}); err != nil {
		return nil, err
	}
	if err := e.notify(ctx, model.Notification{
		UserID:     fromID,
		FromUserID: toID,
		Type:       model.NotifyMatch,
		Message:    MatchMessage(displayNameOr(partner, toID)),
	}); err != nil {
		return nil, err
	}

	e.logger.Info("match created", "match_id", created.ID, "user_a", created.UserIDs[0], "user_b", created.UserIDs[1])
	return &MatchResult{Match: *created, Partner: partner}, nil
}

func displayNameOr(u model.User, id string) string {
	if u.DisplayName == "" {
		return id
	}
	return u.DisplayName
}

func (e *Engine) matched(ctx context.Context, a, b string) (bool, error) {
	_, ok, err := e.repos.Matches.Find(ctx, func(m model.Match) bool { return m.Pairs(a, b) })
	return ok, err
}

// SendCrush is the dating gate for RecordCrush. Both the acting user and
// the target must exist and be adults.
func (e *Engine) SendCrush(ctx context.Context, s Session, targetID string) (*MatchResult, error) {
	if s.UserID == targetID {
		return nil, invalid(CodeSelfCrush, "toId", "cannot crush on yourself")
	}

	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return nil, err
	}
	if !me.IsAdult() {
		return nil, invalid(CodeUnderage, "age", "dating is for adults only")
	}
	target, ok, err := e.User(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("user", targetID)
	}
	if !target.IsAdult() {
		return nil, invalid(CodeUnderage, "toId", "dating is for adults only")
	}

	return e.recordCrush(ctx, me.ID, target.ID)
}

// PoolEntry is one candidate in the dating pool.
type PoolEntry struct {
	User      model.User
	CrushSent bool
	Matched   bool
}

// DatingPool lists every other adult user, in registration order, with the
// acting user's crush and match state toward each.
func (e *Engine) DatingPool(ctx context.Context, s Session) ([]PoolEntry, error) {
	me, err := e.actor(ctx, s)
	if err != nil {
		return nil, err
	}
	if !me.IsAdult() {
		return nil, invalid(CodeUnderage, "age", "dating is for adults only")
	}

	users, err := e.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	crushes, err := e.repos.Crushes.List(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := e.repos.Matches.List(ctx)
	if err != nil {
		return nil, err
	}

	sent := make(map[string]bool)
	for _, c := range crushes {
		if c.FromID == me.ID {
			sent[c.ToID] = true
		}
	}
	partners := make(map[string]bool)
	for _, m := range matches {
		if m.Includes(me.ID) {
			partners[m.Partner(me.ID)] = true
		}
	}

	pool := make([]PoolEntry, 0, len(users))
	for _, u := range users {
		if u.ID == me.ID || !u.IsAdult() {
			continue
		}
		pool = append(pool, PoolEntry{User: u, CrushSent: sent[u.ID], Matched: partners[u.ID]})
	}
	return pool, nil
}

// MatchesFor returns the matches containing userID, each with the partner
// user. Matches whose partner no longer exists are left out.
func (e *Engine) MatchesFor(ctx context.Context, userID string) ([]MatchResult, error) {
	matches, err := e.repos.Matches.Filter(ctx, func(m model.Match) bool { return m.Includes(userID) })
	if err != nil {
		return nil, err
	}
	users, err := e.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		partner, ok := byID[m.Partner(userID)]
		if !ok {
			continue
		}
		out = append(out, MatchResult{Match: m, Partner: partner})
	}
	return out, nil
}
