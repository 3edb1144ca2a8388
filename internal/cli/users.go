package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/engine"
	"github.com/roach88/starweeb/internal/model"
)

// NewUserCommand creates the user command group.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register, list and connect users",
	}
	cmd.AddCommand(
		newUserRegisterCommand(opts),
		&cobra.Command{
			Use:   "show <user>",
			Short: "Show a profile by id, vanity URL, username or email",
			Args:  cobra.ExactArgs(1),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				u, err := rt.MustFindUser(ctx, args[0])
				if err != nil {
					return err
				}
				return rt.Out.Success(view(u, "%s", profileText(u)))
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List users in registration order",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				users, err := rt.Engine.Users(ctx)
				if err != nil {
					return err
				}
				var b strings.Builder
				for _, u := range users {
					fmt.Fprintf(&b, "%s  @%s  %s (%d)\n", u.ID, u.Username, u.DisplayName, u.Age)
				}
				fmt.Fprintf(&b, "%d user(s)", len(users))
				return rt.Out.Success(view(users, "%s", b.String()))
			}),
		},
		&cobra.Command{
			Use:   "friend <user>",
			Short: "Become mutual friends with a user",
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
				if err := rt.Engine.AddFriend(ctx, s, target.ID); err != nil {
					return err
				}
				return rt.Out.Success(view(map[string]string{"friend": target.ID}, "You and @%s are friends.", target.Username))
			}),
		},
		&cobra.Command{
			Use:   "follow <user>",
			Short: "Toggle following a user",
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
				following, err := rt.Engine.ToggleFollow(ctx, s, target.ID)
				if err != nil {
					return err
				}
				text := "Unfollowed @" + target.Username + "."
				if following {
					text = "Following @" + target.Username + "."
				}
				return rt.Out.Success(view(map[string]bool{"following": following}, "%s", text))
			}),
		},
	)
	return cmd
}

func newUserRegisterCommand(opts *RootOptions) *cobra.Command {
	var r engine.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user",
		Example: `  starweeb user register --username tom --email tom@example.com --name "Tom" --age 30`,
		Args: cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			u, err := rt.Engine.Register(ctx, r)
			if err != nil {
				return err
			}
			return rt.Out.Success(view(u, "Registered @%s (%s).", u.Username, u.ID))
		}),
	}
	cmd.Flags().StringVar(&r.Username, "username", "", "username (required)")
	cmd.Flags().StringVar(&r.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&r.DisplayName, "name", "", "display name (required)")
	cmd.Flags().IntVar(&r.Age, "age", 0, "age in years")
	return cmd
}

// NewLoginCommand creates the login command.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username-or-email>",
		Short: "Sign in as an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			u, err := rt.Engine.Login(ctx, args[0])
			if err != nil {
				return err
			}
			return rt.Out.Success(view(u, "Signed in as @%s.", u.Username))
		}),
	}
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the signed-in user",
		Args:  cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			if err := rt.Engine.Logout(ctx); err != nil {
				return err
			}
			return rt.Out.Success(view(map[string]bool{"signedIn": false}, "Signed out."))
		}),
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the acting user",
		Args:  cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			u, err := rt.Me(ctx)
			if err != nil {
				return err
			}
			return rt.Out.Success(view(u, "%s", profileText(u)))
		}),
	}
}

func profileText(u model.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (@%s)\n", u.DisplayName, u.Username)
	fmt.Fprintf(&b, "  id:      %s\n", u.ID)
	if u.CustomURL != "" {
		fmt.Fprintf(&b, "  url:     /%s\n", u.CustomURL)
	}
	fmt.Fprintf(&b, "  age:     %d\n", u.Age)
	fmt.Fprintf(&b, "  bio:     %s\n", u.Bio)
	fmt.Fprintf(&b, "  friends: %d  following: %d", len(u.Friends), len(u.Following))
	return b.String()
}
