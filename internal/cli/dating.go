package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/engine"
)

// NewDatingCommand creates the dating command group.
func NewDatingCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dating",
		Short: "Mutual crushes for adult members",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "crush <user>",
			Short: "Send a crush; a mutual crush becomes a match",
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
				res, err := rt.Engine.SendCrush(ctx, s, target.ID)
				if err != nil {
					return err
				}
				if res == nil {
					return rt.Out.Success(view(map[string]bool{"matched": false}, "Crush on @%s recorded.", target.Username))
				}
				return rt.Out.Success(view(map[string]any{"matched": true, "match": res.Match},
					"%s", engine.MatchMessage(res.Partner.DisplayName)))
			}),
		},
		&cobra.Command{
			Use:   "matches",
			Short: "List the acting user's matches",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				me, err := rt.Me(ctx)
				if err != nil {
					return err
				}
				matches, err := rt.Engine.MatchesFor(ctx, me.ID)
				if err != nil {
					return err
				}
				var b strings.Builder
				partners := make([]string, 0, len(matches))
				for _, m := range matches {
					partners = append(partners, m.Partner.ID)
					fmt.Fprintf(&b, "%s  @%s  %s\n", m.Match.ID, m.Partner.Username, m.Partner.DisplayName)
				}
				fmt.Fprintf(&b, "%d match(es)", len(matches))
				return rt.Out.Success(view(map[string]any{"partners": partners}, "%s", b.String()))
			}),
		},
		&cobra.Command{
			Use:   "pool",
			Short: "List other adults with crush and match state",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				s, err := rt.Session(ctx)
				if err != nil {
					return err
				}
				pool, err := rt.Engine.DatingPool(ctx, s)
				if err != nil {
					return err
				}
				type entry struct {
					UserID    string `json:"userId"`
					Username  string `json:"username"`
					CrushSent bool   `json:"crushSent"`
					Matched   bool   `json:"matched"`
				}
				entries := make([]entry, 0, len(pool))
				var b strings.Builder
				for _, p := range pool {
					entries = append(entries, entry{p.User.ID, p.User.Username, p.CrushSent, p.Matched})
					state := ""
					switch {
					case p.Matched:
						state = "  [matched]"
					case p.CrushSent:
						state = "  [crush sent]"
					}
					fmt.Fprintf(&b, "@%s  %s, %d%s\n", p.User.Username, p.User.DisplayName, p.User.Age, state)
				}
				fmt.Fprintf(&b, "%d in the pool", len(pool))
				return rt.Out.Success(view(entries, "%s", b.String()))
			}),
		},
	)
	return cmd
}
