package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// DefaultForumCategory is used when a thread is created without one.
const DefaultForumCategory = "General"

// CreateThread opens a forum thread. Title and content are required.
func (e *Engine) CreateThread(ctx context.Context, s Session, title, category, content string) (model.ForumThread, error) {
	title = validation.NormalizeText(title)
	if title == "" {
		return model.ForumThread{}, emptyText("title")
	}
	if validation.IsBlank(content) {
		return model.ForumThread{}, emptyText("content")
	}
	category = validation.NormalizeText(category)
	if category == "" {
		category = DefaultForumCategory
	}

	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.ForumThread{}, err
	}
	t := model.ForumThread{
		ID:        e.ids.Generate(),
		Title:     title,
		AuthorID:  me.ID,
		Category:  category,
		Content:   content,
		Timestamp: e.clock.NowMillis(),
		Replies:   []model.ForumReply{},
	}
	if err := e.repos.Forums.Prepend(ctx, t); err != nil {
		return model.ForumThread{}, err
	}
	e.logger.Debug("thread created", "thread_id", t.ID, "category", category)
	return t, nil
}

// Reply appends a reply to threadID and notifies the thread author when
// someone else replied.
func (e *Engine) Reply(ctx context.Context, s Session, threadID, text string) (model.ForumReply, error) {
	if validation.IsBlank(text) {
		return model.ForumReply{}, emptyText("content")
	}

	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return model.ForumReply{}, err
	}
	r := model.ForumReply{
		ID:        e.ids.Generate(),
		AuthorID:  me.ID,
		Content:   text,
		Timestamp: e.clock.NowMillis(),
	}
	var thread model.ForumThread
	err = e.repos.Forums.Update(ctx, func(threads []model.ForumThread) ([]model.ForumThread, error) {
		for i, t := range threads {
			if t.ID == threadID {
				threads[i].Replies = append(slices.Clone(t.Replies), r)
				thread = t
				return threads, nil
			}
		}
		return nil, notFound("thread", threadID)
	})
	if err != nil {
		return model.ForumReply{}, err
	}

	if thread.AuthorID != me.ID {
		if err := e.notify(ctx, model.Notification{
			UserID:     thread.AuthorID,
			FromUserID: me.ID,
			Type:       model.NotifyComment,
			Message:    fmt.Sprintf("%s replied to your thread %q.", me.DisplayName, thread.Title),
		}); err != nil {
			return model.ForumReply{}, err
		}
	}
	return r, nil
}

// Threads returns every thread, newest first.
func (e *Engine) Threads(ctx context.Context) ([]model.ForumThread, error) {
	return e.repos.Forums.List(ctx)
}

// Thread returns one thread with its replies.
func (e *Engine) Thread(ctx context.Context, id string) (model.ForumThread, bool, error) {
	return e.repos.Forums.Find(ctx, func(t model.ForumThread) bool { return t.ID == id })
}
