package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/hisab/internal/models"
)

// ExpenseInput carries the fields of a new expense. A zero Date means now.
type ExpenseInput struct {
	Title  string
	Amount string
	Date   time.Time
}

// LoanInput carries the fields of a new loan entry. A zero Date means now.
type LoanInput struct {
	Person string
	Amount string
	Type   models.LoanType
	Date   time.Time
}

// DebtInput carries the fields of a new debt entry. A zero Date means now.
type DebtInput struct {
	Person string
	Amount string
	Type   models.DebtType
	Date   time.Time
}

// TodoInput carries the fields of a new todo. An empty Day means today.
type TodoInput struct {
	Text string
	Day  string
}

// AddExpense validates in and appends a new expense.
func (l *Ledger) AddExpense(in ExpenseInput) (models.Expense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Expense{}, invalid("title", "required")
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return models.Expense{}, err
	}
	e := models.Expense{
		ID:     l.newID(),
		Title:  title,
		Amount: amount,
		Date:   l.stamp(in.Date),
	}
	l.data.Expenses = append(l.data.Expenses, e)
	return e, nil
}

// AddLoan validates in and appends a new loan entry.
func (l *Ledger) AddLoan(in LoanInput) (models.Loan, error) {
	person := strings.TrimSpace(in.Person)
	if person == "" {
		return models.Loan{}, invalid("person", "required")
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return models.Loan{}, err
	}
	if _, err := models.ParseLoanType(string(in.Type)); err != nil {
		return models.Loan{}, invalid("type", err.Error())
	}
	loan := models.Loan{
		ID:     l.newID(),
		Person: person,
		Amount: amount,
		Type:   in.Type,
		Date:   l.stamp(in.Date),
	}
	l.data.Loans = append(l.data.Loans, loan)
	return loan, nil
}

// AddDebt validates in and appends a new debt entry.
func (l *Ledger) AddDebt(in DebtInput) (models.Debt, error) {
	person := strings.TrimSpace(in.Person)
	if person == "" {
		return models.Debt{}, invalid("person", "required")
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return models.Debt{}, err
	}
	if _, err := models.ParseDebtType(string(in.Type)); err != nil {
		return models.Debt{}, invalid("type", err.Error())
	}
	debt := models.Debt{
		ID:     l.newID(),
		Person: person,
		Amount: amount,
		Type:   in.Type,
		Date:   l.stamp(in.Date),
	}
	l.data.Debts = append(l.data.Debts, debt)
	return debt, nil
}

// AddTodo validates in and appends a new todo for the given day.
func (l *Ledger) AddTodo(in TodoInput) (models.Todo, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return models.Todo{}, invalid("text", "required")
	}
	now := l.now()
	day := in.Day
	if day == "" {
		day = now.Format(models.DayLayout)
	} else if _, err := time.Parse(models.DayLayout, day); err != nil {
		return models.Todo{}, invalid("date", "expected YYYY-MM-DD")
	}
	todo := models.Todo{
		ID:        l.newID(),
		Text:      text,
		Date:      day,
		CreatedAt: now,
	}
	l.data.Todos = append(l.data.Todos, todo)
	return todo, nil
}

// ToggleTodo flips the completed flag and returns the new value.
func (l *Ledger) ToggleTodo(id string) (bool, error) {
	i := indexOf(l.data.Todos, id, func(t models.Todo) string { return t.ID })
	if i < 0 {
		return false, notFound(models.CollectionTodos, id)
	}
	l.data.Todos[i].Completed = !l.data.Todos[i].Completed
	return l.data.Todos[i].Completed, nil
}

// SoftDelete marks a record deleted. The collection length is unchanged.
func (l *Ledger) SoftDelete(c models.Collection, id string) error {
	return l.setDeleted(c, id, true)
}

// Restore clears the deleted mark of a record.
func (l *Ledger) Restore(c models.Collection, id string) error {
	return l.setDeleted(c, id, false)
}

func (l *Ledger) setDeleted(c models.Collection, id string, deleted bool) error {
	switch c {
	case models.CollectionExpenses:
		i := indexOf(l.data.Expenses, id, func(e models.Expense) string { return e.ID })
		if i < 0 {
			return notFound(c, id)
		}
		l.data.Expenses[i].Deleted = deleted
	case models.CollectionLoans:
		i := indexOf(l.data.Loans, id, func(e models.Loan) string { return e.ID })
		if i < 0 {
			return notFound(c, id)
		}
		l.data.Loans[i].Deleted = deleted
	case models.CollectionDebts:
		i := indexOf(l.data.Debts, id, func(e models.Debt) string { return e.ID })
		if i < 0 {
			return notFound(c, id)
		}
		l.data.Debts[i].Deleted = deleted
	case models.CollectionTodos:
		i := indexOf(l.data.Todos, id, func(e models.Todo) string { return e.ID })
		if i < 0 {
			return notFound(c, id)
		}
		l.data.Todos[i].Deleted = deleted
	default:
		return invalid("collection", fmt.Sprintf("%q has no records", c))
	}
	return nil
}

// PermanentDelete removes a record from its collection. It cannot be undone.
func (l *Ledger) PermanentDelete(c models.Collection, id string) error {
	var ok bool
	switch c {
	case models.CollectionExpenses:
		l.data.Expenses, ok = removeID(l.data.Expenses, id, func(e models.Expense) string { return e.ID })
	case models.CollectionLoans:
		l.data.Loans, ok = removeID(l.data.Loans, id, func(e models.Loan) string { return e.ID })
	case models.CollectionDebts:
		l.data.Debts, ok = removeID(l.data.Debts, id, func(e models.Debt) string { return e.ID })
	case models.CollectionTodos:
		l.data.Todos, ok = removeID(l.data.Todos, id, func(e models.Todo) string { return e.ID })
	default:
		return invalid("collection", fmt.Sprintf("%q has no records", c))
	}
	if !ok {
		return notFound(c, id)
	}
	return nil
}

// ClearArchive permanently removes every archived record of a collection and
// returns how many were removed. Archived means soft-deleted; for todos it
// also means completed.
func (l *Ledger) ClearArchive(c models.Collection) (int, error) {
	before := l.Len(c)
	switch c {
	case models.CollectionExpenses:
		l.data.Expenses = keep(l.data.Expenses, func(e models.Expense) bool { return !e.Deleted })
	case models.CollectionLoans:
		l.data.Loans = keep(l.data.Loans, func(e models.Loan) bool { return !e.Deleted })
	case models.CollectionDebts:
		l.data.Debts = keep(l.data.Debts, func(e models.Debt) bool { return !e.Deleted })
	case models.CollectionTodos:
		l.data.Todos = keep(l.data.Todos, func(t models.Todo) bool { return !t.Deleted && !t.Completed })
	default:
		return 0, invalid("collection", fmt.Sprintf("%q has no records", c))
	}
	return before - l.Len(c), nil
}

func (l *Ledger) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return l.now()
	}
	return t
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, invalid("amount", "required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, invalid("amount", "not a number")
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, invalid("amount", "must be greater than zero")
	}
	return d, nil
}

func notFound(c models.Collection, id string) error {
	return fmt.Errorf("%s %s: %w", c, id, ErrNotFound)
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	if id == "" {
		return -1
	}
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}

func removeID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	i := indexOf(items, id, idOf)
	if i < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}

func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}
