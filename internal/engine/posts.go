package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// CreatePost publishes a post by the acting user. A non-empty title makes
// it a blog entry, otherwise it is a status update.
func (e *Engine) CreatePost(ctx context.Context, s Session, content, title string) (model.Post, error) {
	if validation.IsBlank(content) {
		return model.Post{}, emptyText("content")
	}
	title = validation.NormalizeText(title)

	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.Post{}, err
	}

	p := model.Post{
		ID:        e.ids.Generate(),
		AuthorID:  me.ID,
		Content:   content,
		Timestamp: e.clock.NowMillis(),
		Likes:     []string{},
		Comments:  []model.Comment{},
		Type:      model.PostStatus,
	}
	if title != "" {
		p.Type = model.PostBlog
		p.Title = title
	}
	if err := e.repos.Posts.Prepend(ctx, p); err != nil {
		return model.Post{}, err
	}
	e.logger.Debug("post created", "post_id", p.ID, "type", p.Type)
	return p, nil
}

// ToggleLike flips the acting user's like on postID and returns the new state.
func (e *Engine) ToggleLike(ctx context.Context, s Session, postID string) (liked bool, err error) {
	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return false, err
	}
	err = e.repos.Posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		for i, p := range posts {
			if p.ID != postID {
				continue
			}
			if slices.Contains(p.Likes, me.ID) {
				posts[i].Likes = model.RemoveFromSet(p.Likes, me.ID)
			} else {
				posts[i].Likes = model.AddToSet(p.Likes, me.ID)
				liked = true
			}
			return posts, nil
		}
		return nil, notFound("post", postID)
	})
	return liked, err
}

// Comment appends a comment to postID and notifies the author when someone
// else wrote it.
func (e *Engine) Comment(ctx context.Context, s Session, postID, text string) (model.Comment, error) {
	text = validation.NormalizeText(text)
	if text == "" {
		return model.Comment{}, emptyText("text")
	}

	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.Comment{}, err
	}

	c := model.Comment{
		ID:        e.ids.Generate(),
		AuthorID:  me.ID,
		Text:      text,
		Timestamp: e.clock.NowMillis(),
	}
	var author string
	err = e.repos.Posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		for i, p := range posts {
			if p.ID == postID {
				posts[i].Comments = append(slices.Clone(p.Comments), c)
				author = p.AuthorID
				return posts, nil
			}
		}
		return nil, notFound("post", postID)
	})
	if err != nil {
		return model.Comment{}, err
	}

	if author != me.ID {
		if err := e.notify(ctx, model.Notification{
			UserID:     author,
			FromUserID: me.ID,
			Type:       model.NotifyComment,
			Message:    fmt.Sprintf("%s commented on your post.", me.DisplayName),
		}); err != nil {
			return model.Comment{}, err
		}
	}
	return c, nil
}

// Feed returns every post, newest first.
func (e *Engine) Feed(ctx context.Context) ([]model.Post, error) {
	return e.repos.Posts.List(ctx)
}

// PostsBy returns authorID's posts, newest first.
func (e *Engine) PostsBy(ctx context.Context, authorID string) ([]model.Post, error) {
	return e.repos.Posts.Filter(ctx, func(p model.Post) bool { return p.AuthorID == authorID })
}

// BlogPrompt suggests blog titles about topic. It never fails.
func (e *Engine) BlogPrompt(ctx context.Context, topic string) string {
	return e.writer.BlogPrompt(ctx, validation.NormalizeText(topic))
}
