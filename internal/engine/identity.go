package engine

import (
	"context"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// User returns the user with primary id id.
func (e *Engine) User(ctx context.Context, id string) (model.User, bool, error) {
	return e.repos.Users.Find(ctx, func(u model.User) bool { return u.ID == id })
}

// Resolve finds a user by primary id, then by vanity slug.
//
// Primary ids take priority: if one user's id equals another user's slug,
// the id match wins. The slug comparison is exact.
func (e *Engine) Resolve(ctx context.Context, identifier string) (model.User, bool, error) {
	users, err := e.repos.Users.List(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	for _, u := range users {
		if u.ID == identifier {
			return u, true, nil
		}
	}
	if identifier == "" {
		return model.User{}, false, nil
	}
	for _, u := range users {
		if u.CustomURL == identifier {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

// ProfileUpdate is the profile customization bundle. All fields are
// committed together; an empty CustomURL clears the vanity slug.
type ProfileUpdate struct {
	CustomURL   string
	Bio         string
	CustomCSS   string
	CustomEmbed string
}

// ProfileOf returns the current customization bundle of u.
func ProfileOf(u model.User) ProfileUpdate {
	return ProfileUpdate{
		CustomURL:   u.CustomURL,
		Bio:         u.Bio,
		CustomCSS:   u.CustomCSS,
		CustomEmbed: u.CustomEmbed,
	}
}

// UpdateProfile validates p and commits it to the acting user.
//
// Rules, in order: slug format, reserved words (case-insensitive), and
// uniqueness against every other user (case-sensitive). The acting user's
// own slug never collides with itself. Any violation returns an *Error and
// writes nothing.
func (e *Engine) UpdateProfile(ctx context.Context, s Session, p ProfileUpdate) (model.User, error) {
	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.User{}, err
	}
	if err := validation.ValidateSlug(p.CustomURL); err != nil {
		return model.User{}, fromSlugError(err)
	}

	var updated model.User
	err = e.repos.Users.Update(ctx, func(users []model.User) ([]model.User, error) {
		if p.CustomURL != "" {
			for _, u := range users {
				if u.ID != me.ID && u.CustomURL == p.CustomURL {
					return nil, invalid(CodeSlugTaken, "customUrl", "this custom URL is taken")
				}
			}
		}
		for i, u := range users {
			if u.ID == me.ID {
				u.CustomURL = p.CustomURL
				u.Bio = p.Bio
				u.CustomCSS = p.CustomCSS
				u.CustomEmbed = p.CustomEmbed
				users[i] = u
				updated = u
			}
		}
		return users, nil
	})
	if err != nil {
		return model.User{}, err
	}

	e.logger.Debug("profile updated", "user_id", me.ID, "custom_url", p.CustomURL)
	return updated, nil
}
