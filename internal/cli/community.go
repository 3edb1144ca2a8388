package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/engine"
	"github.com/roach88/starweeb/internal/model"
)

// NewForumCommand creates the forum command group.
func NewForumCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forum",
		Short: "Forum threads and replies",
	}

	var title, category string
	create := &cobra.Command{
		Use:   "create <content>",
		Short: "Start a thread",
		Args:  cobra.ExactArgs(1),
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			s, err := rt.Session(ctx)
			if err != nil {
				return err
			}
			t, err := rt.Engine.CreateThread(ctx, s, title, category, args[0])
			if err != nil {
				return err
			}
			return rt.Out.Success(view(t, "Thread %s created in %s.", t.ID, t.Category))
		}),
	}
	create.Flags().StringVar(&title, "title", "", "thread title (required)")
	create.Flags().StringVar(&category, "category", engine.DefaultForumCategory, "forum category")

	cmd.AddCommand(
		create,
		&cobra.Command{
			Use:   "reply <thread-id> <text>",
			Short: "Reply to a thread",
			Args:  cobra.ExactArgs(2),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				s, err := rt.Session(ctx)
				if err != nil {
					return err
				}
				r, err := rt.Engine.Reply(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return rt.Out.Success(view(r, "Reply %s added.", r.ID))
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List threads, newest first",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				threads, err := rt.Engine.Threads(ctx)
				if err != nil {
					return err
				}
				var b strings.Builder
				for _, t := range threads {
					fmt.Fprintf(&b, "%s  [%s] %s by %s (%d replies)\n",
						t.ID, t.Category, t.Title, rt.name(ctx, t.AuthorID), len(t.Replies))
				}
				fmt.Fprintf(&b, "%d thread(s)", len(threads))
				return rt.Out.Success(view(threads, "%s", b.String()))
			}),
		},
		&cobra.Command{
			Use:   "show <thread-id>",
			Short: "Show a thread with its replies",
			Args:  cobra.ExactArgs(1),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				t, ok, err := rt.Engine.Thread(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return &engine.Error{Code: engine.CodeNotFound, Message: fmt.Sprintf("thread %q not found", args[0])}
				}
				var b strings.Builder
				fmt.Fprintf(&b, "[%s] %s by %s\n%s", t.Category, t.Title, rt.name(ctx, t.AuthorID), t.Content)
				for _, r := range t.Replies {
					fmt.Fprintf(&b, "\n  %s: %s", rt.name(ctx, r.AuthorID), r.Content)
				}
				return rt.Out.Success(view(t, "%s", b.String()))
			}),
		},
	)
	return cmd
}

// NewGroupCommand creates the group command group.
func NewGroupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Interest groups",
	}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group owned by the acting user",
		Args:  cobra.ExactArgs(1),
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			s, err := rt.Session(ctx)
			if err != nil {
				return err
			}
			g, err := rt.Engine.CreateGroup(ctx, s, args[0], description)
			if err != nil {
				return err
			}
			return rt.Out.Success(view(g, "Group %s created.", g.ID))
		}),
	}
	create.Flags().StringVar(&description, "desc", "", "group description")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List groups",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				groups, err := rt.Engine.Groups(ctx)
				if err != nil {
					return err
				}
				return rt.Out.Success(view(groups, "%s", groupsText(groups)))
			}),
		},
		create,
		&cobra.Command{
			Use:   "join <group-id>",
			Short: "Join a group",
			Args:  cobra.ExactArgs(1),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				s, err := rt.Session(ctx)
				if err != nil {
					return err
				}
				g, err := rt.Engine.JoinGroup(ctx, s, args[0])
				if err != nil {
					return err
				}
				return rt.Out.Success(view(g, "Joined %s (%d members).", g.Name, len(g.Members)))
			}),
		},
	)
	return cmd
}

func groupsText(groups []model.Group) string {
	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "%s  %s (%d members)  %s\n", g.ID, g.Name, len(g.Members), g.Description)
	}
	fmt.Fprintf(&b, "%d group(s)", len(groups))
	return b.String()
}

// NewBulletinCommand creates the bulletin command group.
func NewBulletinCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulletin",
		Short: "Broadcast bulletins",
	}

	var topic string
	post := &cobra.Command{
		Use:   "post <content>",
		Short: "Post a bulletin",
		Args:  cobra.ExactArgs(1),
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			s, err := rt.Session(ctx)
			if err != nil {
				return err
			}
			bl, err := rt.Engine.PostBulletin(ctx, s, topic, args[0])
			if err != nil {
				return err
			}
			return rt.Out.Success(view(bl, "Bulletin %s posted.", bl.ID))
		}),
	}
	post.Flags().StringVar(&topic, "topic", "", "bulletin topic (required)")

	cmd.AddCommand(
		post,
		&cobra.Command{
			Use:   "list",
			Short: "List bulletins, newest first",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				bulletins, err := rt.Engine.Bulletins(ctx)
				if err != nil {
					return err
				}
				var b strings.Builder
				for _, bl := range bulletins {
					fmt.Fprintf(&b, "%s  %s: [%s] %s\n", bl.ID, rt.name(ctx, bl.AuthorID), bl.Topic, bl.Content)
				}
				fmt.Fprintf(&b, "%d bulletin(s)", len(bulletins))
				return rt.Out.Success(view(bulletins, "%s", b.String()))
			}),
		},
	)
	return cmd
}

// NewPhotoCommand creates the photo command group.
func NewPhotoCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo",
		Short: "Photo gallery",
	}

	var album, caption string
	add := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a photo to the acting user's gallery",
		Args:  cobra.ExactArgs(1),
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			s, err := rt.Session(ctx)
			if err != nil {
				return err
			}
			p, err := rt.Engine.AddPhoto(ctx, s, album, args[0], caption)
			if err != nil {
				return err
			}
			return rt.Out.Success(view(p, "Photo %s added to %s.", p.ID, p.Album))
		}),
	}
	add.Flags().StringVar(&album, "album", "", "album name (default "+engine.DefaultAlbum+")")
	add.Flags().StringVar(&caption, "caption", "", "caption (default "+engine.DefaultCaption+")")

	var by string
	list := &cobra.Command{
		Use:   "list",
		Short: "List photos",
		Args:  cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			var photos []model.Photo
			var err error
			if by != "" {
				u, ferr := rt.MustFindUser(ctx, by)
				if ferr != nil {
					return ferr
				}
				photos, err = rt.Engine.PhotosFor(ctx, u.ID)
			} else {
				photos, err = rt.Engine.Photos(ctx)
			}
			if err != nil {
				return err
			}
			var b strings.Builder
			for _, p := range photos {
				fmt.Fprintf(&b, "%s  [%s] %s  %s\n", p.ID, p.Album, p.Caption, p.URL)
			}
			fmt.Fprintf(&b, "%d photo(s)", len(photos))
			return rt.Out.Success(view(photos, "%s", b.String()))
		}),
	}
	list.Flags().StringVar(&by, "by", "", "only photos by this user")

	cmd.AddCommand(add, list)
	return cmd
}
