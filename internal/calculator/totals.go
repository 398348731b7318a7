// Package calculator computes totals, balances and archive groupings over the
// in-memory collections. Every function is a linear scan and ignores
// soft-deleted records unless it is building the archive.
package calculator

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/hisab/internal/models"
)

// CategoryTotal is the amount spent under one label.
type CategoryTotal struct {
	Title string
	Total decimal.Decimal
}

// TodoProgress summarizes one day of todos.
type TodoProgress struct {
	Total     int
	Completed int
	Remaining int
	Percent   int
}

// ExpenseTotal sums the non-deleted expenses.
func ExpenseTotal(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Deleted {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// ExpenseTotalsByCategory sums non-deleted expenses per title in first-seen order.
func ExpenseTotalsByCategory(expenses []models.Expense) []CategoryTotal {
	acc := newAccumulator()
	for _, e := range expenses {
		if e.Deleted {
			continue
		}
		acc.add(e.Title, e.Amount)
	}
	out := make([]CategoryTotal, 0, len(acc.order))
	for _, b := range acc.balances() {
		out = append(out, CategoryTotal{Title: b.Person, Total: b.NetBalance})
	}
	return out
}

// ActiveExpenses returns the non-deleted expenses, the primary list view.
func ActiveExpenses(expenses []models.Expense) []models.Expense {
	var out []models.Expense
	for _, e := range expenses {
		if !e.Deleted {
			out = append(out, e)
		}
	}
	return out
}

// TodosForDay returns the non-deleted todos scheduled on day.
func TodosForDay(todos []models.Todo, day time.Time) []models.Todo {
	key := day.Format(models.DayLayout)
	var out []models.Todo
	for _, t := range todos {
		if !t.Deleted && t.Date == key {
			out = append(out, t)
		}
	}
	return out
}

// Progress computes completion for a list of todos.
func Progress(todos []models.Todo) TodoProgress {
	p := TodoProgress{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			p.Completed++
		}
	}
	p.Remaining = p.Total - p.Completed
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}
