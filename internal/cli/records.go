package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/hisab/internal/ledger"
	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/view"
)

// NewExpenseCommand creates the expense command group.
func NewExpenseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and list expenses",
	}

	var date string
	add := &cobra.Command{
		Use:           "add <category> <amount>",
		Short:         "Record an expense",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				e, err := w.app.AddExpense(cmd.Context(), ledger.ExpenseInput{Title: args[0], Amount: args[1], Date: day})
				if err != nil {
					return err
				}
				return w.render(view.Expenses{}, e)
			})
		},
	}
	add.Flags().StringVarP(&date, "date", "d", "", "day of the expense (YYYY-MM-DD, default today)")

	cmd.AddCommand(add, listCommand(rootOpts, models.CollectionExpenses, false))
	cmd.AddCommand(archiveCommands(rootOpts, models.CollectionExpenses)...)
	return cmd
}

// NewLoanCommand creates the loan command group.
func NewLoanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Track money lent and repaid",
	}

	var date string
	var repaid bool
	add := &cobra.Command{
		Use:           "add <person> <amount>",
		Short:         "Record money lent, or a repayment with --repaid",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			typ := models.LoanGiven
			if repaid {
				typ = models.LoanRepaid
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				l, err := w.app.AddLoan(cmd.Context(), ledger.LoanInput{Person: args[0], Amount: args[1], Type: typ, Date: day})
				if err != nil {
					return err
				}
				return w.render(view.LoanDetail{Person: l.Person}, l)
			})
		},
	}
	add.Flags().StringVarP(&date, "date", "d", "", "day of the entry (YYYY-MM-DD, default today)")
	add.Flags().BoolVar(&repaid, "repaid", false, "record a repayment instead of a loan")

	cmd.AddCommand(add, listCommand(rootOpts, models.CollectionLoans, true))
	cmd.AddCommand(archiveCommands(rootOpts, models.CollectionLoans)...)
	return cmd
}

// NewDebtCommand creates the debt command group.
func NewDebtCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Keep an open ledger of give and receive with people",
	}

	var date, typ string
	add := &cobra.Command{
		Use:           "add <person> <amount>",
		Short:         "Record money given to or received from a person",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			t, err := models.ParseDebtType(typ)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --type", err)
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				d, err := w.app.AddDebt(cmd.Context(), ledger.DebtInput{Person: args[0], Amount: args[1], Type: t, Date: day})
				if err != nil {
					return err
				}
				return w.render(view.DebtDetail{Person: d.Person}, d)
			})
		},
	}
	add.Flags().StringVarP(&date, "date", "d", "", "day of the entry (YYYY-MM-DD, default today)")
	add.Flags().StringVarP(&typ, "type", "t", string(models.DebtGive), "give or receive")

	cmd.AddCommand(add, listCommand(rootOpts, models.CollectionDebts, true))
	cmd.AddCommand(archiveCommands(rootOpts, models.CollectionDebts)...)
	return cmd
}

// NewTodoCommand creates the todo command group.
func NewTodoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Plan the day",
	}

	var day string
	add := &cobra.Command{
		Use:           "add <text>",
		Short:         "Add a todo",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if day != "" {
				if _, err := parseDay(day); err != nil {
					return err
				}
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				t, err := w.app.AddTodo(cmd.Context(), ledger.TodoInput{Text: args[0], Day: day})
				if err != nil {
					return err
				}
				return w.render(view.Todos{}, t)
			})
		},
	}
	add.Flags().StringVarP(&day, "day", "d", "", "day of the todo (YYYY-MM-DD, default today)")

	toggle := &cobra.Command{
		Use:           "toggle <id>",
		Short:         "Mark a todo done or not done",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				done, err := w.app.ToggleTodo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return w.render(view.Todos{}, map[string]any{"id": args[0], "completed": done})
			})
		},
	}

	cmd.AddCommand(add, toggle, listCommand(rootOpts, models.CollectionTodos, false))
	cmd.AddCommand(archiveCommands(rootOpts, models.CollectionTodos)...)
	return cmd
}

// listCommand renders the screen of c. With perPerson, an optional person
// argument opens the detail screen.
func listCommand(rootOpts *RootOptions, c models.Collection, perPerson bool) *cobra.Command {
	use, args := "list", cobra.NoArgs
	if perPerson {
		use, args = "list [person]", cobra.MaximumNArgs(1)
	}
	return &cobra.Command{
		Use:           use,
		Short:         fmt.Sprintf("Show %s", c),
		Args:          args,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			person := ""
			if len(args) == 1 {
				person = args[0]
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				v := screenOf(c, person)
				w.app.Navigate(v)
				snap, err := w.app.Snapshot()
				if err != nil {
					return err
				}
				return w.render(v, recordsOf(snap, c))
			})
		},
	}
}

// archiveCommands builds delete, restore and clear-archive for c.
func archiveCommands(rootOpts *RootOptions, c models.Collection) []*cobra.Command {
	var permanent bool
	del := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Move an entry to the archive, or remove it with --permanent",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				var err error
				if permanent {
					err = w.app.PermanentDelete(cmd.Context(), c, args[0])
				} else {
					err = w.app.SoftDelete(cmd.Context(), c, args[0])
				}
				if err != nil {
					return err
				}
				return w.render(view.Report{Collection: c}, map[string]any{"id": args[0], "permanent": permanent})
			})
		},
	}
	del.Flags().BoolVar(&permanent, "permanent", false, "remove the entry for good")

	restore := &cobra.Command{
		Use:           "restore <id>",
		Short:         "Bring an entry back from the archive",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if err := w.app.Restore(cmd.Context(), c, args[0]); err != nil {
					return err
				}
				return w.render(screenOf(c, ""), map[string]any{"id": args[0]})
			})
		},
	}

	clearArchive := &cobra.Command{
		Use:           "clear-archive",
		Short:         "Permanently remove every archived entry",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				n, err := w.app.ClearArchive(cmd.Context(), c)
				if err != nil {
					return err
				}
				return w.render(view.Report{Collection: c}, map[string]any{"removed": n})
			})
		},
	}

	return []*cobra.Command{del, restore, clearArchive}
}

func screenOf(c models.Collection, person string) view.View {
	switch c {
	case models.CollectionLoans:
		if person != "" {
			return view.LoanDetail{Person: person}
		}
		return view.Loans{}
	case models.CollectionDebts:
		if person != "" {
			return view.DebtDetail{Person: person}
		}
		return view.Debts{}
	case models.CollectionTodos:
		return view.Todos{}
	}
	return view.Expenses{}
}

func recordsOf(s models.Snapshot, c models.Collection) any {
	switch c {
	case models.CollectionLoans:
		return s.Loans
	case models.CollectionDebts:
		return s.Debts
	case models.CollectionTodos:
		return s.Todos
	}
	return s.Expenses
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(models.DayLayout, s, time.Local)
	if err != nil {
		return time.Time{}, WrapExitError(ExitCommandError, "invalid date", err)
	}
	return t, nil
}
