package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/config"
	"github.com/roach88/starweeb/internal/engine"
	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/store"
	"github.com/roach88/starweeb/internal/store/badgerstore"
	"github.com/roach88/starweeb/internal/store/redisstore"
	"github.com/roach88/starweeb/internal/textgen"
)

// Runtime is everything a command needs: configuration, the open store and
// an engine over it.
type Runtime struct {
	Config *config.Config
	Store  store.Adapter
	Engine *engine.Engine
	Out    *OutputFormatter
	Logger *slog.Logger

	opts  *RootOptions
	close func() error
}

// Close releases the store.
func (rt *Runtime) Close() error {
	if rt.close == nil {
		return nil
	}
	return rt.close()
}

// runE wraps a command body that needs an open runtime.
func runE(opts *RootOptions, fn func(ctx context.Context, rt *Runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, opts)
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(cmd.Context(), rt, args)
	}
}

func openRuntime(cmd *cobra.Command, opts *RootOptions) (*Runtime, error) {
	ctx := cmd.Context()

	cfg, err := config.Load(config.Options{ConfigFile: opts.ConfigFile})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if opts.Backend != "" {
		cfg.Store.Backend = opts.Backend
	}
	if opts.Database != "" {
		if cfg.Store.Backend == config.BackendRedis {
			cfg.Store.RedisURL = opts.Database
		} else {
			cfg.Store.Path = opts.Database
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	rt := &Runtime{
		Config: cfg,
		Logger: logger,
		Out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
		opts: opts,
	}

	if opts.adapter != nil {
		rt.Store = opts.adapter
	} else {
		s, closer, err := openStore(ctx, cfg.Store, logger)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open store", err)
		}
		rt.Store, rt.close = s, closer
	}

	var provider textgen.Provider
	if cfg.TextGen.APIKey != "" {
		p, err := textgen.NewOpenAI(textgen.OpenAIConfig{
			APIKey:  cfg.TextGen.APIKey,
			Model:   cfg.TextGen.Model,
			BaseURL: cfg.TextGen.BaseURL,
		})
		if err != nil {
			rt.Close()
			return nil, WrapExitError(ExitCommandError, "failed to configure text generation", err)
		}
		provider = p
	}
	writer := textgen.NewWriter(provider, textgen.WithTimeout(cfg.TextGen.Timeout), textgen.WithLogger(logger))

	rt.Engine = engine.New(rt.Store, engine.WithWriter(writer), engine.WithLogger(logger))
	logger.Debug("runtime ready", "backend", cfg.Store.Backend, "textgen", provider != nil)
	return rt, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.Adapter, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil, nil
	case config.BackendSQLite:
		s, err := store.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendBadger:
		bc := badgerstore.DefaultConfig(cfg.Path)
		bc.Logger = logger
		s, err := badgerstore.Open(bc)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := redisstore.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Session returns the acting session: the --as user if given, otherwise
// whoever is logged in. It may be anonymous; the engine rejects anonymous
// writes.
func (rt *Runtime) Session(ctx context.Context) (engine.Session, error) {
	if rt.opts.As != "" {
		u, err := rt.MustFindUser(ctx, rt.opts.As)
		if err != nil {
			return engine.Session{}, err
		}
		return engine.SessionFor(u), nil
	}
	s, _, err := rt.Engine.CurrentSession(ctx)
	return s, err
}

// Me returns the acting user, failing when nobody is signed in.
func (rt *Runtime) Me(ctx context.Context) (model.User, error) {
	s, err := rt.Session(ctx)
	if err != nil {
		return model.User{}, err
	}
	if s.Anonymous() {
		return model.User{}, &engine.Error{Code: engine.CodeNotFound, Message: "no user is signed in (use login or --as)"}
	}
	u, ok, err := rt.Engine.User(ctx, s.UserID)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, &engine.Error{Code: engine.CodeNotFound, Message: fmt.Sprintf("user %q not found", s.UserID)}
	}
	return u, nil
}

// FindUser resolves ident as an id, a vanity URL, a username or an email,
// in that order.
func (rt *Runtime) FindUser(ctx context.Context, ident string) (model.User, bool, error) {
	if u, ok, err := rt.Engine.Resolve(ctx, ident); err != nil || ok {
		return u, ok, err
	}
	users, err := rt.Engine.Users(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	for _, u := range users {
		if u.Username == ident {
			return u, true, nil
		}
	}
	for _, u := range users {
		if u.Email == ident {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

// MustFindUser is FindUser with a NOT_FOUND error for unknown users.
func (rt *Runtime) MustFindUser(ctx context.Context, ident string) (model.User, error) {
	u, ok, err := rt.FindUser(ctx, ident)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, &engine.Error{Code: engine.CodeNotFound, Message: fmt.Sprintf("user %q not found", ident)}
	}
	return u, nil
}

// name renders a user id as @username, falling back to the raw id.
func (rt *Runtime) name(ctx context.Context, id string) string {
	if u, ok, err := rt.Engine.User(ctx, id); err == nil && ok {
		return "@" + u.Username
	}
	return id
}
