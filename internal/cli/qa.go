package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/model"
)

// NewQACommand creates the anonymous questions command group.
func NewQACommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qa",
		Short: "Anonymous questions and public answers",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ask <user> <question>",
			Short: "Ask a user an anonymous question",
			Args:  cobra.ExactArgs(2),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				target, err := rt.MustFindUser(ctx, args[0])
				if err != nil {
					return err
				}
				q, err := rt.Engine.Ask(ctx, target.ID, args[1])
				if err != nil {
					return err
				}
				return rt.Out.Success(view(q, "Question %s sent to @%s.", q.ID, target.Username))
			}),
		},
		&cobra.Command{
			Use:   "inbox",
			Short: "List questions addressed to the acting user",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				me, err := rt.Me(ctx)
				if err != nil {
					return err
				}
				inbox, err := rt.Engine.Inbox(ctx, me.ID)
				if err != nil {
					return err
				}
				var b strings.Builder
				fmt.Fprintf(&b, "Unanswered (%d)\n", len(inbox.Unanswered))
				writeQuestions(&b, inbox.Unanswered)
				fmt.Fprintf(&b, "Answered (%d)", len(inbox.Answered))
				if len(inbox.Answered) > 0 {
					b.WriteString("\n")
					writeQuestions(&b, inbox.Answered)
				}
				return rt.Out.Success(view(inbox, "%s", strings.TrimRight(b.String(), "\n")))
			}),
		},
		&cobra.Command{
			Use:   "answer <question-id> <answer>",
			Short: "Answer a question, publishing it",
			Args:  cobra.ExactArgs(2),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				q, err := rt.Engine.Answer(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if q == nil {
					return rt.Out.Success(view(map[string]bool{"answered": false}, "No question %s; nothing changed.", args[0]))
				}
				return rt.Out.Success(view(q, "Answered %s.", q.ID))
			}),
		},
		&cobra.Command{
			Use:   "delete <question-id>",
			Short: "Delete a question, answered or not",
			Args:  cobra.ExactArgs(1),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				if err := rt.Engine.DeleteQuestion(ctx, args[0]); err != nil {
					return err
				}
				return rt.Out.Success(view(map[string]string{"deleted": args[0]}, "Deleted %s.", args[0]))
			}),
		},
		&cobra.Command{
			Use:   "public <user>",
			Short: "List a user's answered questions",
			Args:  cobra.ExactArgs(1),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				u, err := rt.MustFindUser(ctx, args[0])
				if err != nil {
					return err
				}
				answers, err := rt.Engine.PublicAnswers(ctx, u.ID)
				if err != nil {
					return err
				}
				var b strings.Builder
				writeQuestions(&b, answers)
				fmt.Fprintf(&b, "%d answer(s)", len(answers))
				return rt.Out.Success(view(answers, "%s", b.String()))
			}),
		},
	)
	return cmd
}

func writeQuestions(b *strings.Builder, qs []model.AnonymousQuestion) {
	for _, q := range qs {
		fmt.Fprintf(b, "  %s  Q: %s\n", q.ID, q.Question)
		if q.Answered() {
			fmt.Fprintf(b, "      A: %s\n", q.Answer)
		}
	}
}
