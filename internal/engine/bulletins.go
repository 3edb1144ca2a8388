package engine

import (
	"context"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// PostBulletin broadcasts a bulletin from the acting user.
func (e *Engine) PostBulletin(ctx context.Context, s Session, topic, content string) (model.Bulletin, error) {
	topic = validation.NormalizeText(topic)
	if topic == "" {
		return model.Bulletin{}, emptyText("topic")
	}
	if validation.IsBlank(content) {
		return model.Bulletin{}, emptyText("content")
	}

	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.Bulletin{}, err
	}
	b := model.Bulletin{
		ID:        e.ids.Generate(),
		AuthorID:  me.ID,
		Topic:     topic,
		Content:   content,
		Timestamp: e.clock.NowMillis(),
	}
	if err := e.repos.Bulletins.Prepend(ctx, b); err != nil {
		return model.Bulletin{}, err
	}
	return b, nil
}

// Bulletins returns every bulletin, newest first.
func (e *Engine) Bulletins(ctx context.Context) ([]model.Bulletin, error) {
	return e.repos.Bulletins.List(ctx)
}
