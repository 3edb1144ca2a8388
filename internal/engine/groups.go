package engine

import (
	"context"
	"fmt"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// DefaultGroupOwner owns the built-in groups.
const DefaultGroupOwner = "sys"

// DefaultGroups returns the groups shown while none have been stored.
func DefaultGroups() []model.Group {
	return []model.Group{
		{ID: "g1", Name: "Synthwave Lovers", Description: "Neon lights and 80s beats.", OwnerID: DefaultGroupOwner,
			Members: []string{}, ImageURL: "https://picsum.photos/seed/synth/300/200"},
		{ID: "g2", Name: "Web Dev 1.0", Description: "Building the web like it is 1999.", OwnerID: DefaultGroupOwner,
			Members: []string{}, ImageURL: "https://picsum.photos/seed/code/300/200"},
		{ID: "g3", Name: "Top 8 Exchange", Description: "Who is on your list today?", OwnerID: DefaultGroupOwner,
			Members: []string{}, ImageURL: "https://picsum.photos/seed/friends/300/200"},
	}
}

// Groups returns the stored groups, or the defaults while none are stored.
func (e *Engine) Groups(ctx context.Context) ([]model.Group, error) {
	groups, err := e.repos.Groups.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return DefaultGroups(), nil
	}
	return groups, nil
}

// updateGroups is Groups.Update seeded with the defaults, so the first
// write persists them. The caller holds the engine lock.
func (e *Engine) updateGroups(ctx context.Context, fn func([]model.Group) ([]model.Group, error)) error {
	return e.repos.Groups.Update(ctx, func(groups []model.Group) ([]model.Group, error) {
		if len(groups) == 0 {
			groups = DefaultGroups()
		}
		return fn(groups)
	})
}

// CreateGroup creates a group owned by the acting user, who becomes its
// first member.
func (e *Engine) CreateGroup(ctx context.Context, s Session, name, description string) (model.Group, error) {
	name = validation.NormalizeText(name)
	if name == "" {
		return model.Group{}, emptyText("name")
	}

	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.Group{}, err
	}
	g := model.Group{
		ID:          e.ids.Generate(),
		Name:        name,
		Description: validation.NormalizeText(description),
		OwnerID:     me.ID,
		Members:     []string{me.ID},
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/300/200", name),
	}
	err = e.updateGroups(ctx, func(groups []model.Group) ([]model.Group, error) {
		return append(groups, g), nil
	})
	if err != nil {
		return model.Group{}, err
	}
	e.logger.Debug("group created", "group_id", g.ID)
	return g, nil
}

// JoinGroup adds the acting user to groupID. Joining twice changes nothing.
func (e *Engine) JoinGroup(ctx context.Context, s Session, groupID string) (model.Group, error) {
	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.Group{}, err
	}
	var joined model.Group
	err = e.updateGroups(ctx, func(groups []model.Group) ([]model.Group, error) {
		for i, g := range groups {
			if g.ID == groupID {
				groups[i].Members = model.AddToSet(g.Members, me.ID)
				joined = groups[i]
				return groups, nil
			}
		}
		return nil, notFound("group", groupID)
	})
	return joined, err
}

// PersistDefaultGroups stores the default groups if no groups are stored.
// It reports whether anything was written.
func (e *Engine) PersistDefaultGroups(ctx context.Context) (bool, error) {
	defer e.lock()()

	groups, err := e.repos.Groups.List(ctx)
	if err != nil {
		return false, err
	}
	if len(groups) > 0 {
		return false, nil
	}
	return true, e.repos.Groups.Save(ctx, DefaultGroups())
}
