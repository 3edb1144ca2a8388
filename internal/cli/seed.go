package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	so := seed.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with fake demo members and posts",
		Args:  cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			rep, err := seed.Run(ctx, rt.Engine, so)
			if err != nil {
				return err
			}
			usernames := make([]string, 0, len(rep.Users))
			for _, u := range rep.Users {
				usernames = append(usernames, u.Username)
			}
			return rt.Out.Success(view(map[string]any{
				"users":           usernames,
				"posts":           rep.Posts,
				"groupsPersisted": rep.GroupsPersisted,
			}, "Seeded %d user(s) and %d post(s).", len(rep.Users), rep.Posts))
		}),
	}
	cmd.Flags().IntVar(&so.Users, "users", so.Users, "number of users to create")
	cmd.Flags().IntVar(&so.PostsPerUser, "posts", so.PostsPerUser, "status posts per user")
	cmd.Flags().Int64Var(&so.Seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}
