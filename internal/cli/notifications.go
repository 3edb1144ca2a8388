package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/model"
)

// NewNotificationsCommand creates the notifications command group.
func NewNotificationsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notes"},
		Short:   "The acting user's notifications",
	}

	var unread bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			me, err := rt.Me(ctx)
			if err != nil {
				return err
			}
			all, err := rt.Engine.NotificationsFor(ctx, me.ID)
			if err != nil {
				return err
			}
			notes := all
			if unread {
				notes = make([]model.Notification, 0, len(all))
				for _, n := range all {
					if !n.Read {
						notes = append(notes, n)
					}
				}
			}
			var b strings.Builder
			for _, n := range notes {
				mark := " "
				if !n.Read {
					mark = "*"
				}
				fmt.Fprintf(&b, "%s %s  [%s] %s\n", mark, n.ID, n.Type, n.Message)
			}
			count, err := rt.Engine.UnreadCount(ctx, me.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(&b, "%d unread", count)
			return rt.Out.Success(view(notes, "%s", b.String()))
		}),
	}
	list.Flags().BoolVar(&unread, "unread", false, "only unread notifications")

	var all bool
	read := &cobra.Command{
		Use:   "read [notification-id]",
		Short: "Mark one notification, or --all, as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			s, err := rt.Session(ctx)
			if err != nil {
				return err
			}
			if all {
				n, err := rt.Engine.MarkAllRead(ctx, s)
				if err != nil {
					return err
				}
				return rt.Out.Success(view(map[string]int{"marked": n}, "Marked %d notification(s) read.", n))
			}
			if len(args) != 1 {
				return NewExitError(ExitCommandError, "pass a notification id or --all")
			}
			if err := rt.Engine.MarkRead(ctx, s, args[0]); err != nil {
				return err
			}
			return rt.Out.Success(view(map[string]int{"marked": 1}, "Marked %s read.", args[0]))
		}),
	}
	read.Flags().BoolVar(&all, "all", false, "mark every notification read")

	cmd.AddCommand(list, read)
	return cmd
}
