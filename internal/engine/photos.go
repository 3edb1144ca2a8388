package engine

import (
	"context"
	"strings"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// Gallery defaults.
const (
	DefaultAlbum   = "General"
	DefaultCaption = "Untitled"
)

// AddPhoto adds a photo to the acting user's gallery. Only url is required.
func (e *Engine) AddPhoto(ctx context.Context, s Session, album, url, caption string) (model.Photo, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.Photo{}, emptyText("url")
	}
	album = validation.NormalizeText(album)
	if album == "" {
		album = DefaultAlbum
	}
	caption = validation.NormalizeText(caption)
	if caption == "" {
		caption = DefaultCaption
	}

	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.Photo{}, err
	}
	p := model.Photo{
		ID:        e.ids.Generate(),
		UserID:    me.ID,
		Album:     album,
		URL:       url,
		Caption:   caption,
		Timestamp: e.clock.NowMillis(),
	}
	if err := e.repos.Photos.Prepend(ctx, p); err != nil {
		return model.Photo{}, err
	}
	return p, nil
}

// Photos returns every photo, newest first.
func (e *Engine) Photos(ctx context.Context) ([]model.Photo, error) {
	return e.repos.Photos.List(ctx)
}

// PhotosFor returns userID's photos, newest first.
func (e *Engine) PhotosFor(ctx context.Context, userID string) ([]model.Photo, error) {
	return e.repos.Photos.Filter(ctx, func(p model.Photo) bool { return p.UserID == userID })
}
