package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmynk/hisab/internal/app"
	"github.com/mmynk/hisab/internal/view"
)

// table is the app surface of one editable reference list.
type table struct {
	add  func(a *app.App, ctx context.Context, v string) (string, error)
	del  func(a *app.App, ctx context.Context, v string) error
	move func(a *app.App, ctx context.Context, v string, to int) error
}

// NewNameCommand creates the name command group.
func NewNameCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name",
		Short: "Edit the people used by loans and debts",
	}
	cmd.AddCommand(tableCommands(rootOpts, "name", table{
		add:  (*app.App).AddName,
		del:  (*app.App).DeleteName,
		move: (*app.App).MoveName,
	})...)
	return cmd
}

// NewCategoryCommand creates the category command group.
func NewCategoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Edit the expense categories",
	}
	cmd.AddCommand(tableCommands(rootOpts, "category", table{
		add:  (*app.App).AddCategory,
		del:  (*app.App).DeleteCategory,
		move: (*app.App).MoveCategory,
	})...)

	reset := &cobra.Command{
		Use:           "reset",
		Short:         "Restore the default categories",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if err := w.app.RestoreDefaultCategories(cmd.Context()); err != nil {
					return err
				}
				return w.renderSettings()
			})
		},
	}
	cmd.AddCommand(reset)
	return cmd
}

func tableCommands(rootOpts *RootOptions, noun string, t table) []*cobra.Command {
	add := &cobra.Command{
		Use:           "add <" + noun + ">",
		Short:         "Append a " + noun,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if _, err := t.add(w.app, cmd.Context(), args[0]); err != nil {
					return err
				}
				return w.renderSettings()
			})
		},
	}

	del := &cobra.Command{
		Use:           "delete <" + noun + ">",
		Short:         "Remove a " + noun + "; existing entries keep it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if err := t.del(w.app, cmd.Context(), args[0]); err != nil {
					return err
				}
				return w.renderSettings()
			})
		},
	}

	move := &cobra.Command{
		Use:           "move <" + noun + "> <position>",
		Short:         "Move a " + noun + " to a 1-based position",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 {
				return NewExitError(ExitCommandError, "position must be a number from 1")
			}
			return withWorkspace(cmd, rootOpts, func(w *workspace) error {
				if err := t.move(w.app, cmd.Context(), args[0], pos-1); err != nil {
					return err
				}
				return w.renderSettings()
			})
		},
	}

	return []*cobra.Command{add, del, move}
}

func (w *workspace) renderSettings() error {
	snap, err := w.app.Snapshot()
	if err != nil {
		return err
	}
	return w.render(view.Settings{}, map[string]any{
		"names":      snap.Names,
		"categories": snap.Categories,
	})
}
