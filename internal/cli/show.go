package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/hisab/internal/calculator"
	"github.com/mmynk/hisab/internal/export"
	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/view"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [view] [arg]",
		Short: "Render a screen",
		Long: `Render one screen of the app.

Views: dashboard, expenses, loans, loan-detail <person>, debts,
debt-detail <person>, todos, settings, report [collection], login.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without a view the current screen is shown: the dashboard, or
			// the login screen while signed out.
			var v view.View
			if len(args) > 0 {
				arg := ""
				if len(args) > 1 {
					arg = args[1]
				}
				var err error
				if v, err = view.Parse(args[0], arg); err != nil {
					return WrapExitError(ExitCommandError, "invalid view", err)
				}
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if v != nil {
					w.app.Navigate(v)
				}
				snap, err := w.app.Snapshot()
				if err != nil {
					return err
				}
				return w.render(v, snap)
			})
		},
	}
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "report [expenses|loans|debts|todos]",
		Short:         "Show the archive of deleted entries by month",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := models.CollectionExpenses
			if len(args) == 1 {
				var err error
				if c, err = models.ParseRecordCollection(args[0]); err != nil {
					return WrapExitError(ExitCommandError, "invalid collection", err)
				}
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				v := view.Report{Collection: c}
				w.app.Navigate(v)
				snap, err := w.app.Snapshot()
				if err != nil {
					return err
				}
				return w.render(v, calculator.Archive(snap, c))
			})
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Write every collection to an Excel workbook",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if output == "" {
				output = fmt.Sprintf("hisab-%s.xlsx", now.Format(models.DayLayout))
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				snap, err := w.app.Snapshot()
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
					return err
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := export.Write(f, snap, now); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				w.out.VerboseLog("Exported %d expenses, %d loans, %d debts, %d todos",
					len(snap.Expenses), len(snap.Loans), len(snap.Debts), len(snap.Todos))
				return w.out.Success(map[string]string{"path": output}, func(out io.Writer) error {
					_, err := fmt.Fprintf(out, "Exported to %s\n", output)
					return err
				})
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default hisab-<date>.xlsx)")
	return cmd
}
