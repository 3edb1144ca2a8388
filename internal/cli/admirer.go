package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAdmirerCommand creates the secret admirer command group.
func NewAdmirerCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admirer",
		Short: "Anonymous secret admirer notes",
	}

	var text string
	send := &cobra.Command{
		Use:   "send <user>",
		Short: "Send an anonymous note; without --text one is generated",
		Args:  cobra.ExactArgs(1),
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			s, err := rt.Session(ctx)
			if err != nil {
				return err
			}
			target, err := rt.MustFindUser(ctx, args[0])
			if err != nil {
				return err
			}
			if text == "" {
				msg, err := rt.Engine.SendAdmirerNote(ctx, s, target.ID)
				if err != nil {
					return err
				}
				return rt.Out.Success(view(msg, "Sent to @%s: %s", target.Username, msg.Content))
			}
			msg, err := rt.Engine.SendSecret(ctx, s, target.ID, text)
			if err != nil {
				return err
			}
			return rt.Out.Success(view(msg, "Sent to @%s.", target.Username))
		}),
	}
	send.Flags().StringVar(&text, "text", "", "note text")

	inbox := &cobra.Command{
		Use:   "inbox",
		Short: "List secret notes addressed to the acting user",
		Args:  cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			me, err := rt.Me(ctx)
			if err != nil {
				return err
			}
			msgs, err := rt.Engine.SecretsFor(ctx, me.ID)
			if err != nil {
				return err
			}
			var b strings.Builder
			for _, m := range msgs {
				fmt.Fprintf(&b, "  %s\n", m.Content)
			}
			fmt.Fprintf(&b, "%d secret(s)", len(msgs))
			return rt.Out.Success(view(msgs, "%s", b.String()))
		}),
	}

	cmd.AddCommand(send, inbox)
	return cmd
}
