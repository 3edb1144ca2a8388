package harness

import (
	"context"
	"fmt"

	"github.com/roach88/starweeb/internal/engine"
)

type opFunc func(ctx context.Context, h *Harness, step Step) (map[string]any, error)

// ops maps scenario op names to engine calls. Results carry no generated
// ids, so traces stay readable in golden files.
var ops = map[string]opFunc{
	"register":        opRegister,
	"crush":           opCrush,
	"profile":         opProfile,
	"friend":          opFriend,
	"follow":          opFollow,
	"ask":             opAsk,
	"answer":          opAnswer,
	"delete_question": opDeleteQuestion,
	"post":            opPost,
	"like":            opLike,
	"comment":         opComment,
	"secret":          opSecret,
	"admirer":         opAdmirer,
	"bulletin":        opBulletin,
	"read_all":        opReadAll,
}

func opRegister(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	username := argString(step, "username")
	email := argString(step, "email")
	if email == "" {
		email = username + "@example.com"
	}
	display := argString(step, "displayName")
	if display == "" {
		display = username
	}

	u, err := h.engine.Register(ctx, engine.Registration{
		Username:    username,
		Email:       email,
		DisplayName: display,
		Age:         argInt(step, "age"),
	})
	if err != nil {
		return nil, err
	}
	h.users[u.Username] = u.ID
	if step.Ref != "" {
		h.users[step.Ref] = u.ID
	}
	return map[string]any{"username": u.Username}, nil
}

func opCrush(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	res, err := h.engine.SendCrush(ctx, h.session(step.As), h.userID(argString(step, "to")))
	if err != nil {
		return nil, err
	}
	return map[string]any{"matched": res != nil}, nil
}

func opProfile(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	var p engine.ProfileUpdate
	if u, ok, err := h.engine.User(ctx, h.userID(step.As)); err != nil {
		return nil, err
	} else if ok {
		p = engine.ProfileOf(u)
	}
	if v, ok := step.Args["customUrl"]; ok {
		p.CustomURL = fmt.Sprint(v)
	}
	if v, ok := step.Args["bio"]; ok {
		p.Bio = fmt.Sprint(v)
	}
	if v, ok := step.Args["customCss"]; ok {
		p.CustomCSS = fmt.Sprint(v)
	}
	if v, ok := step.Args["customEmbed"]; ok {
		p.CustomEmbed = fmt.Sprint(v)
	}

	u, err := h.engine.UpdateProfile(ctx, h.session(step.As), p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"customUrl": u.CustomURL}, nil
}

func opFriend(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	return nil, h.engine.AddFriend(ctx, h.session(step.As), h.userID(argString(step, "to")))
}

func opFollow(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	following, err := h.engine.ToggleFollow(ctx, h.session(step.As), h.userID(argString(step, "to")))
	if err != nil {
		return nil, err
	}
	return map[string]any{"following": following}, nil
}

func opAsk(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	q, err := h.engine.Ask(ctx, h.userID(argString(step, "to")), argString(step, "text"))
	if err != nil {
		return nil, err
	}
	if step.Ref != "" {
		h.records[step.Ref] = q.ID
	}
	return nil, nil
}

func opAnswer(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	q, err := h.engine.Answer(ctx, h.record(argString(step, "question")), argString(step, "text"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"answered": q != nil}, nil
}

func opDeleteQuestion(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	return nil, h.engine.DeleteQuestion(ctx, h.record(argString(step, "question")))
}

func opPost(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	p, err := h.engine.CreatePost(ctx, h.session(step.As), argString(step, "content"), argString(step, "title"))
	if err != nil {
		return nil, err
	}
	if step.Ref != "" {
		h.records[step.Ref] = p.ID
	}
	return map[string]any{"type": string(p.Type)}, nil
}

func opLike(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	liked, err := h.engine.ToggleLike(ctx, h.session(step.As), h.record(argString(step, "post")))
	if err != nil {
		return nil, err
	}
	return map[string]any{"liked": liked}, nil
}

func opComment(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	_, err := h.engine.Comment(ctx, h.session(step.As), h.record(argString(step, "post")), argString(step, "text"))
	return nil, err
}

func opSecret(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	_, err := h.engine.SendSecret(ctx, h.session(step.As), h.userID(argString(step, "to")), argString(step, "text"))
	return nil, err
}

func opAdmirer(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	m, err := h.engine.SendAdmirerNote(ctx, h.session(step.As), h.userID(argString(step, "to")))
	if err != nil {
		return nil, err
	}
	return map[string]any{"content": m.Content}, nil
}

func opBulletin(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	_, err := h.engine.PostBulletin(ctx, h.session(step.As), argString(step, "topic"), argString(step, "content"))
	return nil, err
}

func opReadAll(ctx context.Context, h *Harness, step Step) (map[string]any, error) {
	n, err := h.engine.MarkAllRead(ctx, h.session(step.As))
	if err != nil {
		return nil, err
	}
	return map[string]any{"marked": n}, nil
}

func argString(step Step, key string) string {
	v, ok := step.Args[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func argInt(step Step, key string) int {
	switch v := step.Args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
