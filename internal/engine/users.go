package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// Registration defaults.
const (
	DefaultBio          = "Just another soul in the Starweeb network."
	DefaultProfileColor = "#bf00ff"
)

// DefaultAvatar returns the placeholder avatar URL for username.
func DefaultAvatar(username string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/200/200", username)
}

// Registration is the sign-up form.
type Registration struct {
	Username    string
	Email       string
	DisplayName string
	Age         int
}

// Register creates a user. Usernames are unique, compared exactly.
func (e *Engine) Register(ctx context.Context, r Registration) (model.User, error) {
	form := validation.Registration{
		Username:    strings.TrimSpace(r.Username),
		Email:       strings.TrimSpace(r.Email),
		DisplayName: validation.NormalizeText(r.DisplayName),
		Age:         r.Age,
	}
	if err := validation.ValidateRegistration(form); err != nil {
		var fe *validation.FieldError
		if errors.As(err, &fe) {
			return model.User{}, &Error{
				Code:    CodeInvalidInput,
				Field:   jsonFieldName(fe.Field),
				Message: fmt.Sprintf("%s is invalid (%s)", jsonFieldName(fe.Field), fe.Rule),
				Err:     err,
			}
		}
		return model.User{}, err
	}

	defer e.lock()()

	u := model.User{
		ID:           e.ids.Generate(),
		Username:     form.Username,
		DisplayName:  form.DisplayName,
		Email:        form.Email,
		Bio:          DefaultBio,
		Avatar:       DefaultAvatar(form.Username),
		ProfileColor: DefaultProfileColor,
		Friends:      []string{},
		Following:    []string{},
		Age:          form.Age,
	}
	err := e.repos.Users.Update(ctx, func(users []model.User) ([]model.User, error) {
		for _, existing := range users {
			if existing.Username == u.Username {
				return nil, invalid(CodeUsernameTaken, "username", "username is already registered")
			}
		}
		return append(users, u), nil
	})
	if err != nil {
		return model.User{}, err
	}

	e.logger.Debug("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// jsonFieldName lowercases the first letter of a Go field name.
func jsonFieldName(goName string) string {
	if goName == "" {
		return goName
	}
	return strings.ToLower(goName[:1]) + goName[1:]
}

// Users returns every registered user in registration order.
func (e *Engine) Users(ctx context.Context) ([]model.User, error) {
	return e.repos.Users.List(ctx)
}

// AddFriend makes the acting user and target mutual friends and notifies
// target. Adding an existing friend changes nothing.
func (e *Engine) AddFriend(ctx context.Context, s Session, targetID string) error {
	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return err
	}
	if targetID == me.ID {
		return invalid(CodeInvalidInput, "targetId", "cannot befriend yourself")
	}
	target, ok, err := e.User(ctx, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("user", targetID)
	}

	already := slices.Contains(me.Friends, target.ID) && slices.Contains(target.Friends, me.ID)
	if already {
		return nil
	}

	err = e.repos.Users.Update(ctx, func(users []model.User) ([]model.User, error) {
		for i, u := range users {
			switch u.ID {
			case me.ID:
				users[i].Friends = model.AddToSet(u.Friends, target.ID)
			case target.ID:
				users[i].Friends = model.AddToSet(u.Friends, me.ID)
			}
		}
		return users, nil
	})
	if err != nil {
		return err
	}

	return e.notify(ctx, model.Notification{
		UserID:     target.ID,
		FromUserID: me.ID,
		Type:       model.NotifyFriendRequest,
		Message:    fmt.Sprintf("%s added you as a friend!", me.DisplayName),
	})
}

// ToggleFollow flips whether the acting user follows target. It returns
// the new state.
func (e *Engine) ToggleFollow(ctx context.Context, s Session, targetID string) (following bool, err error) {
	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return false, err
	}
	if targetID == me.ID {
		return false, invalid(CodeInvalidInput, "targetId", "cannot follow yourself")
	}
	if _, ok, err := e.User(ctx, targetID); err != nil {
		return false, err
	} else if !ok {
		return false, notFound("user", targetID)
	}

	err = e.repos.Users.Update(ctx, func(users []model.User) ([]model.User, error) {
		for i, u := range users {
			if u.ID != me.ID {
				continue
			}
			if slices.Contains(u.Following, targetID) {
				users[i].Following = model.RemoveFromSet(u.Following, targetID)
			} else {
				users[i].Following = model.AddToSet(u.Following, targetID)
				following = true
			}
		}
		return users, nil
	})
	return following, err
}
