// Package cli implements the hisab command line: every command opens the
// device state, performs one action and renders the result.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional path to hisab.yaml
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the hisab CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hisab",
		Short: "hisab - personal finance ledger",
		Long: `Track expenses, loans, debts and daily todos on this device.

Data is saved locally first. When signed in, every change is also pushed
to the sync server so other devices pick it up on their next start.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "config file (default ./hisab.yaml or $HOME/.hisab/hisab.yaml)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewExpenseCommand(opts))
	cmd.AddCommand(NewLoanCommand(opts))
	cmd.AddCommand(NewDebtCommand(opts))
	cmd.AddCommand(NewTodoCommand(opts))
	cmd.AddCommand(NewNameCommand(opts))
	cmd.AddCommand(NewCategoryCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}
