package engine

import (
	"context"

	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/validation"
)

// Ask sends an anonymous question to toUserID. It is prepended, so inboxes
// list the most recent question first.
func (e *Engine) Ask(ctx context.Context, toUserID, text string) (model.AnonymousQuestion, error) {
	text = validation.NormalizeText(text)
	if text == "" {
		return model.AnonymousQuestion{}, emptyText("question")
	}

	defer e.lock()()

	if _, ok, err := e.User(ctx, toUserID); err != nil {
		return model.AnonymousQuestion{}, err
	} else if !ok {
		return model.AnonymousQuestion{}, notFound("user", toUserID)
	}

	q := model.AnonymousQuestion{
		ID:        e.ids.Generate(),
		ToUserID:  toUserID,
		Question:  text,
		Timestamp: e.clock.NowMillis(),
	}
	if err := e.repos.Questions.Prepend(ctx, q); err != nil {
		return model.AnonymousQuestion{}, err
	}
	e.logger.Debug("question asked", "question_id", q.ID, "to", toUserID)
	return q, nil
}

// Answer sets the answer of questionID, moving it to the public archive.
//
// Blank text and a second answer are rejected. An unknown id is a silent
// no-op: it returns (nil, nil) and writes nothing.
func (e *Engine) Answer(ctx context.Context, questionID, text string) (*model.AnonymousQuestion, error) {
	text = validation.NormalizeText(text)
	if text == "" {
		return nil, emptyText("answer")
	}

	defer e.lock()()

	questions, err := e.repos.Questions.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, q := range questions {
		if q.ID == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}
	if questions[idx].Answered() {
		return nil, invalid(CodeAlreadyAnswered, "answer", "question is already answered")
	}

	questions[idx].Answer = text
	questions[idx].AnsweredAt = e.clock.NowMillis()
	if err := e.repos.Questions.Save(ctx, questions); err != nil {
		return nil, err
	}
	answered := questions[idx]
	e.logger.Debug("question answered", "question_id", questionID)
	return &answered, nil
}

// DeleteQuestion removes questionID in either state. Deleting an absent
// question succeeds.
func (e *Engine) DeleteQuestion(ctx context.Context, questionID string) error {
	defer e.lock()()
	_, err := e.repos.Questions.Remove(ctx, func(q model.AnonymousQuestion) bool { return q.ID == questionID })
	return err
}

// Inbox is a recipient's private view of their questions.
type Inbox struct {
	Unanswered []model.AnonymousQuestion
	Answered   []model.AnonymousQuestion
}

// Inbox returns userID's questions split by state, newest first.
func (e *Engine) Inbox(ctx context.Context, userID string) (Inbox, error) {
	mine, err := e.repos.Questions.Filter(ctx, func(q model.AnonymousQuestion) bool { return q.ToUserID == userID })
	if err != nil {
		return Inbox{}, err
	}
	box := Inbox{Unanswered: []model.AnonymousQuestion{}, Answered: []model.AnonymousQuestion{}}
	for _, q := range mine {
		if q.Answered() {
			box.Answered = append(box.Answered, q)
		} else {
			box.Unanswered = append(box.Unanswered, q)
		}
	}
	return box, nil
}

// PublicAnswers returns the answered questions shown on userID's profile.
func (e *Engine) PublicAnswers(ctx context.Context, userID string) ([]model.AnonymousQuestion, error) {
	return e.repos.Questions.Filter(ctx, func(q model.AnonymousQuestion) bool {
		return q.ToUserID == userID && q.Answered()
	})
}
