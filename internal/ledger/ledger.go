// Package ledger holds the application state: the in-memory collections and
// the mutations the UI invokes on them.
//
// A Ledger is owned by one caller and passed explicitly; it is not safe for
// concurrent use. Persistence is the caller's job (see package syncer).
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hisab/internal/models"
)

// Ledger is the single owned application-state object.
type Ledger struct {
	data  models.Snapshot
	now   func() time.Time
	newID func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// New returns a ledger in its first-use state.
func New(opts ...Option) *Ledger {
	return FromSnapshot(models.EmptySnapshot(), opts...)
}

// FromSnapshot builds a ledger over a copy of s and runs the id migration.
func FromSnapshot(s models.Snapshot, opts ...Option) *Ledger {
	l := &Ledger{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.data = normalize(s.Clone())
	l.Migrate()
	return l
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() models.Snapshot {
	return l.data.Clone()
}

// Replace swaps in every collection present (non-nil) in s, leaving the rest
// untouched, then runs the id migration. It returns the replaced collections
// and the number of ids the migration assigned.
func (l *Ledger) Replace(s models.Snapshot) ([]models.Collection, int) {
	var replaced []models.Collection
	if s.Expenses != nil {
		l.data.Expenses = cloneOf(s.Expenses)
		replaced = append(replaced, models.CollectionExpenses)
	}
	if s.Debts != nil {
		l.data.Debts = cloneOf(s.Debts)
		replaced = append(replaced, models.CollectionDebts)
	}
	if s.Loans != nil {
		l.data.Loans = cloneOf(s.Loans)
		replaced = append(replaced, models.CollectionLoans)
	}
	if s.Todos != nil {
		l.data.Todos = cloneOf(s.Todos)
		replaced = append(replaced, models.CollectionTodos)
	}
	if s.Names != nil {
		l.data.Names = cloneOf(s.Names)
		replaced = append(replaced, models.CollectionNames)
	}
	if s.Categories != nil {
		l.data.Categories = cloneOf(s.Categories)
		replaced = append(replaced, models.CollectionCategories)
	}
	return replaced, l.Migrate()
}

// Migrate assigns an id to every legacy record that lacks one and returns how
// many were assigned. It runs whenever state is loaded, so lookups by id never
// need to backfill.
func (l *Ledger) Migrate() int {
	n := 0
	for i := range l.data.Expenses {
		if l.data.Expenses[i].ID == "" {
			l.data.Expenses[i].ID = l.newID()
			n++
		}
	}
	for i := range l.data.Loans {
		if l.data.Loans[i].ID == "" {
			l.data.Loans[i].ID = l.newID()
			n++
		}
	}
	for i := range l.data.Debts {
		if l.data.Debts[i].ID == "" {
			l.data.Debts[i].ID = l.newID()
			n++
		}
	}
	for i := range l.data.Todos {
		if l.data.Todos[i].ID == "" {
			l.data.Todos[i].ID = l.newID()
			n++
		}
	}
	return n
}

// Expenses returns the expense collection, including soft-deleted records.
func (l *Ledger) Expenses() []models.Expense { return cloneOf(l.data.Expenses) }

// Loans returns the loan collection, including soft-deleted records.
func (l *Ledger) Loans() []models.Loan { return cloneOf(l.data.Loans) }

// Debts returns the debt collection, including soft-deleted records.
func (l *Ledger) Debts() []models.Debt { return cloneOf(l.data.Debts) }

// Todos returns the todo collection, including soft-deleted records.
func (l *Ledger) Todos() []models.Todo { return cloneOf(l.data.Todos) }

// Names returns the people reference table.
func (l *Ledger) Names() []string { return cloneOf(l.data.Names) }

// Categories returns the expense label reference table.
func (l *Ledger) Categories() []string { return cloneOf(l.data.Categories) }

// Len returns the number of entries in a collection.
func (l *Ledger) Len(c models.Collection) int {
	switch c {
	case models.CollectionExpenses:
		return len(l.data.Expenses)
	case models.CollectionLoans:
		return len(l.data.Loans)
	case models.CollectionDebts:
		return len(l.data.Debts)
	case models.CollectionTodos:
		return len(l.data.Todos)
	case models.CollectionNames:
		return len(l.data.Names)
	case models.CollectionCategories:
		return len(l.data.Categories)
	}
	return 0
}

// normalize turns absent collections into empty ones so a full-replace write
// always carries every field.
func normalize(s models.Snapshot) models.Snapshot {
	if s.Expenses == nil {
		s.Expenses = []models.Expense{}
	}
	if s.Debts == nil {
		s.Debts = []models.Debt{}
	}
	if s.Loans == nil {
		s.Loans = []models.Loan{}
	}
	if s.Todos == nil {
		s.Todos = []models.Todo{}
	}
	if s.Names == nil {
		s.Names = []string{}
	}
	if s.Categories == nil {
		s.Categories = models.DefaultCategories()
	}
	return s
}

func cloneOf[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
