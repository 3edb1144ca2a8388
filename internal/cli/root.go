// Package cli implements the starweeb command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Backend    string
	Database   string
	As         string

	// adapter replaces the configured store when set. Tests use it to share
	// one memory store across invocations.
	adapter store.Adapter
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the starweeb CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "starweeb",
		Short: "Starweeb - a retro social network",
		Long: `Starweeb is a retro social network: profiles with vanity URLs, friends,
a feed, anonymous questions, secret admirers and a mutual-crush dating pool.

All state lives in one key-value store (sqlite, badger, redis or memory).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (default ./starweeb.yaml)")
	pf.StringVar(&opts.Backend, "backend", "", "store backend (sqlite|badger|redis|memory)")
	pf.StringVar(&opts.Database, "db", "", "store path, or redis URL for the redis backend")
	pf.StringVar(&opts.As, "as", "", "act as this user (id, vanity URL, username or email) instead of the logged-in one")

	cmd.AddCommand(
		NewUserCommand(opts),
		NewLoginCommand(opts),
		NewLogoutCommand(opts),
		NewWhoamiCommand(opts),
		NewProfileCommand(opts),
		NewDatingCommand(opts),
		NewQACommand(opts),
		NewAdmirerCommand(opts),
		NewPostCommand(opts),
		NewForumCommand(opts),
		NewGroupCommand(opts),
		NewBulletinCommand(opts),
		NewPhotoCommand(opts),
		NewNotificationsCommand(opts),
		NewBackupCommand(opts),
		NewCheckCommand(opts),
		NewSeedCommand(opts),
		NewTestCommand(opts),
	)
	return cmd
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are rendered in the selected output format.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	return execute(ctx, opts, args, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return exitErr.Code
	}

	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	out := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	code, message, details := describeError(err)
	_ = out.Error(code, message, details)
	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
