package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/snapshot"
)

// NewBackupCommand creates the backup command group.
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, import, save and restore snapshots",
		Long: `A snapshot is a JSON object holding the raw value of every collection
key, or null for keys that were never written. Snapshots are compatible with
the browser app's export file.`,
	}

	var output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot to stdout or a file",
		Args:  cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			doc, err := snapshot.Export(ctx, rt.Store)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := fmt.Fprintln(rt.Out.Writer, string(doc))
				return err
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "failed to write snapshot", err)
			}
			return rt.Out.Success(view(map[string]string{"path": output}, "Snapshot written to %s.", output))
		}),
	}
	export.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Load a snapshot, replacing the stored keys it names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				doc, err := readInput(cmd.InOrStdin(), args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read snapshot", err)
				}
				rep, err := snapshot.Import(ctx, rt.Store, doc)
				if err != nil {
					var fe *snapshot.ImportFormatError
					if errors.As(err, &fe) {
						return WrapExitError(ExitFailure, "snapshot rejected", err)
					}
					return err
				}
				return rt.Out.Success(view(rep, "%s", importText(rep)))
			})(cmd, args)
		},
	}

	cmd.AddCommand(
		export,
		importCmd,
		&cobra.Command{
			Use:   "save",
			Short: "Save a snapshot inside the store",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				doc, err := snapshot.Save(ctx, rt.Store)
				if err != nil {
					return err
				}
				return rt.Out.Success(view(map[string]int{"bytes": len(doc)}, "Backup saved (%d bytes).", len(doc)))
			}),
		},
		&cobra.Command{
			Use:   "restore",
			Short: "Restore the snapshot saved with backup save",
			Args:  cobra.NoArgs,
			RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
				rep, err := snapshot.Restore(ctx, rt.Store)
				if errors.Is(err, snapshot.ErrNoBackup) {
					return WrapExitError(ExitFailure, "nothing to restore", err)
				}
				if err != nil {
					return err
				}
				return rt.Out.Success(view(rep, "%s", importText(rep)))
			}),
		},
	)
	return cmd
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func importText(rep snapshot.Report) string {
	text := fmt.Sprintf("Imported %d key(s)", len(rep.Written))
	if len(rep.Skipped) > 0 {
		text += fmt.Sprintf(", skipped %s", strings.Join(rep.Skipped, ", "))
	}
	return text + "."
}
