package engine

import (
	"context"

	"github.com/roach88/starweeb/internal/model"
)

// notify prepends n, filling in id, timestamp and read=false.
// The caller holds the engine lock.
func (e *Engine) notify(ctx context.Context, n model.Notification) error {
	n.ID = e.ids.Generate()
	n.Timestamp = e.clock.NowMillis()
	n.Read = false
	if err := e.repos.Notifications.Prepend(ctx, n); err != nil {
		return err
	}
	e.logger.Debug("notification sent", "user_id", n.UserID, "type", n.Type)
	return nil
}

// NotificationsFor returns the notifications addressed to userID, newest first.
func (e *Engine) NotificationsFor(ctx context.Context, userID string) ([]model.Notification, error) {
	return e.repos.Notifications.Filter(ctx, func(n model.Notification) bool { return n.UserID == userID })
}

// UnreadCount counts userID's notifications with read=false.
func (e *Engine) UnreadCount(ctx context.Context, userID string) (int, error) {
	unread, err := e.repos.Notifications.Filter(ctx, func(n model.Notification) bool {
		return n.UserID == userID && !n.Read
	})
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

// MarkRead sets read=true on one of the acting user's notifications.
func (e *Engine) MarkRead(ctx context.Context, s Session, notificationID string) error {
	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return err
	}
	return e.repos.Notifications.Update(ctx, func(all []model.Notification) ([]model.Notification, error) {
		for i, n := range all {
			if n.ID == notificationID && n.UserID == me.ID {
				all[i].Read = true
				return all, nil
			}
		}
		return nil, notFound("notification", notificationID)
	})
}

// MarkAllRead marks every notification of the acting user read and returns
// how many changed.
func (e *Engine) MarkAllRead(ctx context.Context, s Session) (int, error) {
	defer e.lock()()

	me, err := e.actor(ctx, s)
	if err != nil {
		return 0, err
	}
	changed := 0
	err = e.repos.Notifications.Update(ctx, func(all []model.Notification) ([]model.Notification, error) {
		for i, n := range all {
			if n.UserID == me.ID && !n.Read {
				all[i].Read = true
				changed++
			}
		}
		return all, nil
	})
	return changed, err
}
