package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/starweeb/internal/audit"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Audit stored data for structural and consistency problems",
		Long: `Audit every collection key: JSON shape against the record schema, then
record invariants such as unique ids and slugs, canonical matches and
dangling references.

Exit codes:
  0 - No errors (warnings allowed)
  1 - One or more errors found
  2 - Command error`,
		Args: cobra.NoArgs,
		RunE: runE(opts, func(ctx context.Context, rt *Runtime, args []string) error {
			rep, err := audit.Check(ctx, rt.Store)
			if err != nil {
				return err
			}

			var b strings.Builder
			for _, f := range rep.Findings {
				fmt.Fprintln(&b, f.String())
			}
			fmt.Fprintf(&b, "%d error(s), %d warning(s)", rep.Errors(), rep.Warnings())

			if err := rt.Out.Success(view(rep, "%s", b.String())); err != nil {
				return err
			}
			if !rep.OK() {
				return reportedFailure(fmt.Sprintf("audit found %d error(s)", rep.Errors()))
			}
			return nil
		}),
	}
}
