package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/model"
)

// NewPostCommand creates the post command group.
func NewPostCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Status updates, blog entries, likes and comments",
	}

	var title string
	blog := &cobra.Command{
		Use:   "blog <content>",
		Short: "Publish a titled blog entry",
		Args:  cobra.ExactArgs(1),
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			return createPost(ctx, rt, args[0], title)
		}),
	}
	blog.Flags().StringVar(&title, "title", "", "blog title (required)")
	_ = blog.MarkFlagRequired("title")

	var by string
	feed := &cobra.Command{
		Use:   "feed",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			var posts []model.Post
			var err error
			if by != "" {
				u, ferr := rt.MustFindUser(ctx, by)
				if ferr != nil {
					return ferr
				}
				posts, err = rt.Engine.PostsBy(ctx, u.ID)
			} else {
				posts, err = rt.Engine.Feed(ctx)
			}
			if err != nil {
				return err
			}
			var b strings.Builder
			for _, p := range posts {
				head := p.Content
				if p.Type == model.PostBlog {
					head = "[" + p.Title + "] " + p.Content
				}
				fmt.Fprintf(&b, "%s  %s: %s  (%d likes, %d comments)\n",
					p.ID, rt.name(ctx, p.AuthorID), head, len(p.Likes), len(p.Comments))
			}
			fmt.Fprintf(&b, "%d post(s)", len(posts))
			return rt.Out.Success(view(posts, "%s", b.String()))
		}),
	}
	feed.Flags().StringVar(&by, "by", "", "only posts by this user")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status <content>",
			Short: "Publish a status update",
			Args:  cobra.ExactArgs(1),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				return createPost(ctx, rt, args[0], "")
			}),
		},
		blog,
		&cobra.Command{
			Use:   "like <post-id>",
			Short: "Toggle a like",
			Args:  cobra.ExactArgs(1),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				s, err := rt.Session(ctx)
				if err != nil {
					return err
				}
				liked, err := rt.Engine.ToggleLike(ctx, s, args[0])
				if err != nil {
					return err
				}
				text := "Unliked."
				if liked {
					text = "Liked."
				}
				return rt.Out.Success(view(map[string]bool{"liked": liked}, "%s", text))
			}),
		},
		&cobra.Command{
			Use:   "comment <post-id> <text>",
			Short: "Comment on a post",
			Args:  cobra.ExactArgs(2),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				s, err := rt.Session(ctx)
				if err != nil {
					return err
				}
				c, err := rt.Engine.Comment(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				return rt.Out.Success(view(c, "Comment %s added.", c.ID))
			}),
		},
		feed,
		&cobra.Command{
			Use:   "prompt <topic>",
			Short: "Suggest blog titles about a topic",
			Args:  cobra.ExactArgs(1),
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				text := rt.Engine.BlogPrompt(ctx, args[0])
				return rt.Out.Success(view(map[string]string{"prompt": text}, "%s", text))
			}),
		},
	)
	return cmd
}

func createPost(ctx context.Context, rt *Runtime, content, title string) error {
	s, err := rt.Session(ctx)
	if err != nil {
		return err
	}
	p, err := rt.Engine.CreatePost(ctx, s, content, title)
	if err != nil {
		return err
	}
	return rt.Out.Success(view(p, "Posted %s %s.", p.Type, p.ID))
}
