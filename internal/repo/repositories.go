// Package repo provides typed collections over the store.Adapter.
package repo

import (
	"context"
	"fmt"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/store"
)

// Repositories groups one collection per entity plus the session slot.
// All collections share the same adapter by reference.
type Repositories struct {
	Users         *Collection[model.User]
	Posts         *Collection[model.Post]
	Bulletins     *Collection[model.Bulletin]
	Forums        *Collection[model.ForumThread]
	Photos        *Collection[model.Photo]
	Groups        *Collection[model.Group]
	Notifications *Collection[model.Notification]
	Secrets       *Collection[model.SecretMessage]
	Questions     *Collection[model.AnonymousQuestion]
	Crushes       *Collection[model.DatingCrush]
	Matches       *Collection[model.Match]
	Session       *Session
}

// New binds every repository to s.
func New(s store.Adapter) *Repositories {
	return &Repositories{
		Users:         NewCollection[model.User](s, store.KeyUsers),
		Posts:         NewCollection[model.Post](s, store.KeyPosts),
		Bulletins:     NewCollection[model.Bulletin](s, store.KeyBulletins),
		Forums:        NewCollection[model.ForumThread](s, store.KeyForums),
		Photos:        NewCollection[model.Photo](s, store.KeyPhotos),
		Groups:        NewCollection[model.Group](s, store.KeyGroups),
		Notifications: NewCollection[model.Notification](s, store.KeyNotifications),
		Secrets:       NewCollection[model.SecretMessage](s, store.KeySecrets),
		Questions:     NewCollection[model.AnonymousQuestion](s, store.KeyQuestions),
		Crushes:       NewCollection[model.DatingCrush](s, store.KeyCrushes),
		Matches:       NewCollection[model.Match](s, store.KeyMatches),
		Session:       &Session{store: s},
	}
}

// Session is the "current user" slot. It stores a full user record, or
// JSON null when nobody is signed in.
type Session struct {
	store store.Adapter
}

// Get returns the stored user, or nil if the slot is empty or null.
func (s *Session) Get(ctx context.Context) (*model.User, error) {
	raw, ok, err := s.store.Get(ctx, store.KeySession)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var u *model.User
	if err := decode(store.KeySession, raw, &u); err != nil {
		return nil, err
	}
	return u, nil
}

// Set stores u, or null when u is nil.
func (s *Session) Set(ctx context.Context, u *model.User) error {
	raw, err := encode(u)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	if err := s.store.Set(ctx, store.KeySession, raw); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}
