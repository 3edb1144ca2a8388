package engine

import (
	"context"
	"fmt"

	"github.com/roach88/starweeb/internal/model"
)

// Session identifies the acting user of an operation.
// The zero Session is anonymous.
type Session struct {
	UserID string
}

// SessionFor returns a session acting as u.
func SessionFor(u model.User) Session {
	return Session{UserID: u.ID}
}

// Anonymous reports whether no user is acting.
func (s Session) Anonymous() bool {
	return s.UserID == ""
}

// Login finds a user by exact username or email and stores it in the
// session slot.
func (e *Engine) Login(ctx context.Context, usernameOrEmail string) (model.User, error) {
	defer e.lock()()

	u, ok, err := e.repos.Users.Find(ctx, func(u model.User) bool {
		return u.Username == usernameOrEmail || u.Email == usernameOrEmail
	})
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, notFound("user", usernameOrEmail)
	}
	if err := e.repos.Session.Set(ctx, &u); err != nil {
		return model.User{}, err
	}
	e.logger.Debug("session started", "user_id", u.ID)
	return u, nil
}

// Logout clears the session slot.
func (e *Engine) Logout(ctx context.Context) error {
	defer e.lock()()
	return e.repos.Session.Set(ctx, nil)
}

// CurrentSession returns the session stored in the session slot and the
// user it refers to, re-resolved by id so profile edits are visible. A
// stored user that no longer exists yields an anonymous session.
func (e *Engine) CurrentSession(ctx context.Context) (Session, *model.User, error) {
	stored, err := e.repos.Session.Get(ctx)
	if err != nil {
		return Session{}, nil, err
	}
	if stored == nil {
		return Session{}, nil, nil
	}
	u, ok, err := e.User(ctx, stored.ID)
	if err != nil {
		return Session{}, nil, err
	}
	if !ok {
		return Session{}, nil, nil
	}
	return SessionFor(u), &u, nil
}

// actor resolves the acting user of s.
func (e *Engine) actor(ctx context.Context, s Session) (model.User, error) {
	if s.Anonymous() {
		return model.User{}, &Error{Code: CodeNotFound, Message: "no user is signed in"}
	}
	u, ok, err := e.User(ctx, s.UserID)
	if err != nil {
		return model.User{}, fmt.Errorf("resolve acting user: %w", err)
	}
	if !ok {
		return model.User{}, notFound("user", s.UserID)
	}
	return u, nil
}
