// Package seed fills a store with fake demo members and content. It is meant
// for local development only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/roach88/starweeb/internal/engine"
	"github.com/roach88/starweeb/internal/model"
)

// Options configures a seeding run.
type Options struct {
	Users        int
	PostsPerUser int
	// Seed makes runs reproducible. Zero picks a random seed.
	Seed int64
}

// DefaultOptions returns a small demo dataset.
func DefaultOptions() Options {
	return Options{Users: 10, PostsPerUser: 1}
}

// Report summarizes what a run created.
type Report struct {
	Users           []model.User
	Posts           int
	GroupsPersisted bool
}

// maxUsernameAttempts bounds retries when the faker repeats a username.
const maxUsernameAttempts = 5

// Run registers fake adult members through the engine, gives each some
// status posts, and persists the default groups if none are stored yet.
func Run(ctx context.Context, e *engine.Engine, opts Options) (Report, error) {
	if opts.Users < 0 || opts.PostsPerUser < 0 {
		return Report{}, fmt.Errorf("seed counts must not be negative")
	}
	f := gofakeit.New(opts.Seed)

	var rep Report
	for i := 0; i < opts.Users; i++ {
		u, err := registerFake(ctx, e, f)
		if err != nil {
			return rep, fmt.Errorf("seed user %d: %w", i, err)
		}
		rep.Users = append(rep.Users, u)

		s := engine.SessionFor(u)
		for j := 0; j < opts.PostsPerUser; j++ {
			if _, err := e.CreatePost(ctx, s, f.Sentence(8), ""); err != nil {
				return rep, fmt.Errorf("seed post for %s: %w", u.Username, err)
			}
			rep.Posts++
		}
	}

	persisted, err := e.PersistDefaultGroups(ctx)
	if err != nil {
		return rep, fmt.Errorf("seed groups: %w", err)
	}
	rep.GroupsPersisted = persisted

	slog.Info("seed complete", "users", len(rep.Users), "posts", rep.Posts, "groups_persisted", persisted)
	return rep, nil
}

func registerFake(ctx context.Context, e *engine.Engine, f *gofakeit.Faker) (model.User, error) {
	var lastErr error
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username := strings.ReplaceAll(f.Username(), " ", "") + fmt.Sprintf("%d", f.Number(100, 999))
		u, err := e.Register(ctx, engine.Registration{
			Username:    username,
			Email:       strings.ToLower(username) + "@" + f.DomainName(),
			DisplayName: f.Name(),
			Age:         f.Number(model.AdultAge, 45),
		})
		if err == nil {
			return u, nil
		}
		if engine.ErrorCode(err) != engine.CodeUsernameTaken {
			return model.User{}, err
		}
		lastErr = err
	}
	return model.User{}, lastErr
}
