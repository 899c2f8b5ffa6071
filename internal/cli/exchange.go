package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all tasks as JSON",
		Long:  "Write every task as a JSON array to file, or to stdout when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			var out io.Writer = cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				defer f.Close()
				out = f
			}
			b := a.loadBoard(ctx)
			if err := b.ExportTasks(out); err != nil {
				return err
			}
			if len(args) == 1 {
				cmd.Printf("Exported %d tasks to %s\n", len(b.Tasks()), args[0])
			}
			return nil
		},
	}
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from a JSON export",
		Long: `Append the tasks of a JSON array to the board.

Entries without a title are skipped. Missing or clashing ids are replaced.
A file that is not a JSON array of tasks leaves the board untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()

			n, err := a.loadBoard(ctx).ImportTasks(f)
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d tasks\n", n)
			return nil
		},
	}
}
