package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/hisab/internal/models"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(s string) time.Time {
	t, err := time.Parse(models.DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLoanBalance_Karim(t *testing.T) {
	loans := []models.Loan{
		{ID: "1", Person: "Karim", Amount: d(200), Type: models.LoanGiven},
		{ID: "2", Person: "Karim", Amount: d(50), Type: models.LoanRepaid},
	}

	assert.True(t, LoanBalance(loans, "Karim").Equal(d(150)))

	balances := LoanBalances(loans)
	require.Len(t, balances, 1)
	assert.Equal(t, "Karim", balances[0].Person)
	assert.Equal(t, 2, balances[0].Entries)
	assert.True(t, balances[0].NetBalance.Equal(d(150)))
}

func TestLoanBalances_OrderAndDeleted(t *testing.T) {
	loans := []models.Loan{
		{Person: "Rahim", Amount: d(100), Type: models.LoanGiven},
		{Person: "Karim", Amount: d(300), Type: models.LoanGiven},
		{Person: "Rahim", Amount: d(100), Type: models.LoanRepaid},
		{Person: "Karim", Amount: d(1000), Type: models.LoanGiven, Deleted: true},
	}

	balances := LoanBalances(loans)
	require.Len(t, balances, 2)
	assert.Equal(t, "Rahim", balances[0].Person)
	assert.True(t, balances[0].NetBalance.IsZero())
	assert.Equal(t, "Karim", balances[1].Person)
	assert.True(t, balances[1].NetBalance.Equal(d(300)))
	assert.True(t, OutstandingLoans(loans).Equal(d(300)))
	assert.Len(t, LoanHistory(loans, "Karim"), 1)
}

func TestSummarizeDebts(t *testing.T) {
	debts := []models.Debt{
		{Person: "Karim", Amount: d(500), Type: models.DebtGive},
		{Person: "Karim", Amount: d(200), Type: models.DebtReceive},
		{Person: "Salma", Amount: d(120), Type: models.DebtReceive},
		{Person: "Rahim", Amount: d(80), Type: models.DebtGive, Deleted: true},
	}

	sum := SummarizeDebts(debts)
	assert.True(t, sum.Receivable.Equal(d(300)), "receivable = %s", sum.Receivable)
	assert.True(t, sum.Payable.Equal(d(120)), "payable = %s", sum.Payable)
	assert.True(t, DebtBalance(debts, "Salma").Equal(d(-120)))
	assert.Empty(t, DebtHistory(debts, "Rahim"))
}

func TestExpenseTotals(t *testing.T) {
	expenses := []models.Expense{
		{ID: "1", Title: "বাজার খরচ", Amount: d(100)},
		{ID: "2", Title: "যাতায়াত", Amount: d(30)},
		{ID: "3", Title: "বাজার খরচ", Amount: d(50)},
	}
	assert.True(t, ExpenseTotal(expenses).Equal(d(180)))

	// soft-deleting the 50 lowers the total by 50
	expenses[2].Deleted = true
	assert.True(t, ExpenseTotal(expenses).Equal(d(130)))
	assert.Len(t, ActiveExpenses(expenses), 2)

	byCategory := ExpenseTotalsByCategory(expenses)
	require.Len(t, byCategory, 2)
	assert.Equal(t, "বাজার খরচ", byCategory[0].Title)
	assert.True(t, byCategory[0].Total.Equal(d(100)))
}

func TestArchive_Expenses(t *testing.T) {
	s := models.EmptySnapshot()
	s.Expenses = []models.Expense{
		{ID: "1", Title: "বাজার খরচ", Amount: d(50), Date: day("2026-09-03"), Deleted: true},
		{ID: "2", Title: "যাতায়াত", Amount: d(20), Date: day("2026-10-01")},
		{ID: "3", Title: "বাসা ভাড়া", Amount: d(9000), Date: day("2026-10-02"), Deleted: true},
		{ID: "4", Title: "মোবাইল বিল", Amount: d(300), Date: day("2026-10-05"), Deleted: true},
	}

	months := Archive(s, models.CollectionExpenses)
	require.Len(t, months, 2)
	assert.Equal(t, "2026-10", months[0].Month)
	require.Len(t, months[0].Entries, 2)
	assert.Equal(t, "4", months[0].Entries[0].ID)
	assert.Equal(t, "3", months[0].Entries[1].ID)
	assert.Equal(t, "2026-09", months[1].Month)
	assert.Equal(t, StatusDeleted, months[1].Entries[0].Status)
	assert.Equal(t, 3, ArchiveCount(s, models.CollectionExpenses))
}

func TestArchive_Todos(t *testing.T) {
	s := models.EmptySnapshot()
	s.Todos = []models.Todo{
		{ID: "a", Text: "done", Date: "2026-10-18", Completed: true},
		{ID: "b", Text: "gone", Date: "2026-10-18", Deleted: true},
		{ID: "c", Text: "open", Date: "2026-10-18"},
	}

	months := Archive(s, models.CollectionTodos)
	require.Len(t, months, 1)
	require.Len(t, months[0].Entries, 2)
	assert.Equal(t, StatusDeleted, months[0].Entries[0].Status)
	assert.Equal(t, StatusCompleted, months[0].Entries[1].Status)
}

func TestTodosForDayAndProgress(t *testing.T) {
	todos := []models.Todo{
		{ID: "a", Date: "2026-10-18", Completed: true},
		{ID: "b", Date: "2026-10-18"},
		{ID: "c", Date: "2026-10-18"},
		{ID: "d", Date: "2026-10-17"},
		{ID: "e", Date: "2026-10-18", Deleted: true},
	}

	today := TodosForDay(todos, day("2026-10-18"))
	require.Len(t, today, 3)

	p := Progress(today)
	assert.Equal(t, TodoProgress{Total: 3, Completed: 1, Remaining: 2, Percent: 33}, p)
	assert.Equal(t, TodoProgress{}, Progress(nil))
}
