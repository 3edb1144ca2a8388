package engine

import (
	"context"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// SecretNotice is the notification text for a delivered secret message.
const SecretNotice = "A secret admirer has sent a resonance to your inbox!"

// SendAdmirerNote generates an anonymous note for toUserID and delivers it.
//
// The text is generated before any write. Provider failures resolve to the
// writer's fallback, so delivery happens either way.
func (e *Engine) SendAdmirerNote(ctx context.Context, s Session, toUserID string) (model.SecretMessage, error) {
	if _, err := e.actor(ctx, s); err != nil {
		return model.SecretMessage{}, err
	}
	target, ok, err := e.User(ctx, toUserID)
	if err != nil {
		return model.SecretMessage{}, err
	}
	if !ok {
		return model.SecretMessage{}, notFound("user", toUserID)
	}

	note := e.writer.SecretAdmirerNote(ctx, target.DisplayName)

	defer e.lock()()
	return e.deliverSecret(ctx, toUserID, note, true)
}

// SendSecret delivers a hand-written anonymous note to toUserID.
func (e *Engine) SendSecret(ctx context.Context, s Session, toUserID, text string) (model.SecretMessage, error) {
	text = validation.NormalizeText(text)
	if text == "" {
		return model.SecretMessage{}, emptyText("content")
	}

	defer e.lock()()

	if _, err := e.actor(ctx, s); err != nil {
		return model.SecretMessage{}, err
	}
	if _, ok, err := e.User(ctx, toUserID); err != nil {
		return model.SecretMessage{}, err
	} else if !ok {
		return model.SecretMessage{}, notFound("user", toUserID)
	}
	return e.deliverSecret(ctx, toUserID, text, false)
}

// deliverSecret stores the message and notifies the recipient. The sender
// is never recorded. The caller holds the engine lock.
func (e *Engine) deliverSecret(ctx context.Context, toUserID, content string, isAI bool) (model.SecretMessage, error) {
	msg := model.SecretMessage{
		ID:        e.ids.Generate(),
		ToUserID:  toUserID,
		Content:   content,
		Timestamp: e.clock.NowMillis(),
		IsAI:      isAI,
	}
	if err := e.repos.Secrets.Prepend(ctx, msg); err != nil {
		return model.SecretMessage{}, err
	}
	if err := e.notify(ctx, model.Notification{
		UserID:     toUserID,
		FromUserID: model.SystemSender,
		Type:       model.NotifyMention,
		Message:    SecretNotice,
	}); err != nil {
		return model.SecretMessage{}, err
	}
	return msg, nil
}

// SecretsFor returns the secret messages addressed to userID, newest first.
func (e *Engine) SecretsFor(ctx context.Context, userID string) ([]model.SecretMessage, error) {
	return e.repos.Secrets.Filter(ctx, func(m model.SecretMessage) bool { return m.ToUserID == userID })
}
