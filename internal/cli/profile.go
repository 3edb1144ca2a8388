package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/engine"
)

// NewProfileCommand creates the profile command group.
func NewProfileCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Customize the acting user's profile",
	}

	var url, bio, css, embed string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update vanity URL, bio, custom CSS or embed",
		Long: `Update profile customization. Only the flags you pass change; the
rest keep their current values. Pass --url "" to clear the vanity URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(opts, func(ctx context.Context, rt *Runtime, _ []string) error {
				me, err := rt.Me(ctx)
				if err != nil {
					return err
				}
				p := engine.ProfileOf(me)
				flags := cmd.Flags()
				if flags.Changed("url") {
					p.CustomURL = url
				}
				if flags.Changed("bio") {
					p.Bio = bio
				}
				if flags.Changed("css") {
					p.CustomCSS = css
				}
				if flags.Changed("embed") {
					p.CustomEmbed = embed
				}
				u, err := rt.Engine.UpdateProfile(ctx, engine.SessionFor(me), p)
				if err != nil {
					return err
				}
				return rt.Out.Success(view(u, "%s", profileText(u)))
			})(cmd, args)
		},
	}
	set.Flags().StringVar(&url, "url", "", "vanity URL slug")
	set.Flags().StringVar(&bio, "bio", "", "bio text")
	set.Flags().StringVar(&css, "css", "", "custom CSS")
	set.Flags().StringVar(&embed, "embed", "", "custom embed HTML")

	cmd.AddCommand(set)
	return cmd
}
