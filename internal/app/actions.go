package app

import (
	"context"

	"github.com/mmynk/hisab/internal/ledger"
	"github.com/mmynk/hisab/internal/models"
)

// mutate runs fn against the ledger. A rejected input changes nothing and
// persists nothing; otherwise the view is refreshed and the state persisted.
// Only a local persistence failure is returned alongside the result.
func mutate[T any](ctx context.Context, a *App, fn func(l *ledger.Ledger) (T, error)) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero T
	if a.ledger == nil {
		return zero, ErrNotOpen
	}
	v, err := fn(a.ledger)
	if err != nil {
		return zero, err
	}
	a.changed()
	if err := a.engine.Persist(ctx, a.ledger); err != nil {
		return v, err
	}
	return v, nil
}

func none(fn func(l *ledger.Ledger) error) func(l *ledger.Ledger) (struct{}, error) {
	return func(l *ledger.Ledger) (struct{}, error) { return struct{}{}, fn(l) }
}

func (a *App) AddExpense(ctx context.Context, in ledger.ExpenseInput) (models.Expense, error) {
	return mutate(ctx, a, func(l *ledger.Ledger) (models.Expense, error) { return l.AddExpense(in) })
}

func (a *App) AddLoan(ctx context.Context, in ledger.LoanInput) (models.Loan, error) {
	return mutate(ctx, a, func(l *ledger.Ledger) (models.Loan, error) { return l.AddLoan(in) })
}

func (a *App) AddDebt(ctx context.Context, in ledger.DebtInput) (models.Debt, error) {
	return mutate(ctx, a, func(l *ledger.Ledger) (models.Debt, error) { return l.AddDebt(in) })
}

func (a *App) AddTodo(ctx context.Context, in ledger.TodoInput) (models.Todo, error) {
	return mutate(ctx, a, func(l *ledger.Ledger) (models.Todo, error) { return l.AddTodo(in) })
}

// ToggleTodo flips completion and returns the new value.
func (a *App) ToggleTodo(ctx context.Context, id string) (bool, error) {
	return mutate(ctx, a, func(l *ledger.Ledger) (bool, error) { return l.ToggleTodo(id) })
}

// SoftDelete moves a record to the archive.
func (a *App) SoftDelete(ctx context.Context, c models.Collection, id string) error {
	_, err := mutate(ctx, a, none(func(l *ledger.Ledger) error { return l.SoftDelete(c, id) }))
	return err
}

// Restore brings a record back from the archive.
func (a *App) Restore(ctx context.Context, c models.Collection, id string) error {
	_, err := mutate(ctx, a, none(func(l *ledger.Ledger) error { return l.Restore(c, id) }))
	return err
}

// PermanentDelete removes a record for good.
func (a *App) PermanentDelete(ctx context.Context, c models.Collection, id string) error {
	_, err := mutate(ctx, a, none(func(l *ledger.Ledger) error { return l.PermanentDelete(c, id) }))
	return err
}

// ClearArchive removes every archived record of c and returns the count.
func (a *App) ClearArchive(ctx context.Context, c models.Collection) (int, error) {
	return mutate(ctx, a, func(l *ledger.Ledger) (int, error) { return l.ClearArchive(c) })
}

func (a *App) AddName(ctx context.Context, name string) (string, error) {
	return mutate(ctx, a, func(l *ledger.Ledger) (string, error) { return l.AddName(name) })
}

func (a *App) DeleteName(ctx context.Context, name string) error {
	_, err := mutate(ctx, a, none(func(l *ledger.Ledger) error { return l.DeleteName(name) }))
	return err
}

func (a *App) MoveName(ctx context.Context, name string, to int) error {
	_, err := mutate(ctx, a, none(func(l *ledger.Ledger) error { return l.MoveName(name, to) }))
	return err
}

func (a *App) AddCategory(ctx context.Context, category string) (string, error) {
	return mutate(ctx, a, func(l *ledger.Ledger) (string, error) { return l.AddCategory(category) })
}

func (a *App) DeleteCategory(ctx context.Context, category string) error {
	_, err := mutate(ctx, a, none(func(l *ledger.Ledger) error { return l.DeleteCategory(category) }))
	return err
}

func (a *App) MoveCategory(ctx context.Context, category string, to int) error {
	_, err := mutate(ctx, a, none(func(l *ledger.Ledger) error { return l.MoveCategory(category, to) }))
	return err
}

// RestoreDefaultCategories resets the categories to the five defaults.
func (a *App) RestoreDefaultCategories(ctx context.Context) error {
	_, err := mutate(ctx, a, none(func(l *ledger.Ledger) error {
		l.RestoreDefaultCategories()
		return nil
	}))
	return err
}
