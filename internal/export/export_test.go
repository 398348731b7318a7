package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/hisab/internal/models"
)

func TestWrite(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s := models.EmptySnapshot()
	s.Expenses = []models.Expense{
		{ID: "e1", Title: "বাজার খরচ", Amount: decimal.NewFromInt(100), Date: now},
		{ID: "e2", Title: "যাতায়াত", Amount: decimal.NewFromInt(50), Date: now, Deleted: true},
	}
	s.Loans = []models.Loan{
		{ID: "l1", Person: "Karim", Amount: decimal.NewFromInt(200), Type: models.LoanGiven, Date: now},
		{ID: "l2", Person: "Karim", Amount: decimal.NewFromInt(50), Type: models.LoanRepaid, Date: now},
	}
	s.Todos = []models.Todo{{ID: "t1", Text: "বাজার", Date: "2026-10-18", Completed: true}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, now))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetExpenses, SheetLoans, SheetDebts, SheetTodos, SheetArchive}, f.GetSheetList())

	rows, err := f.GetRows(SheetExpenses)
	require.NoError(t, err)
	require.Len(t, rows, 3) // header, one active expense, total
	assert.Equal(t, []string{"ID", "Title", "Amount", "Date"}, rows[0])
	assert.Equal(t, "e1", rows[1][0])
	assert.Equal(t, "100", rows[1][2])
	assert.Equal(t, "Total", rows[2][0])

	loans, err := f.GetRows(SheetLoans)
	require.NoError(t, err)
	last := loans[len(loans)-1]
	assert.Equal(t, "Karim", last[1])
	assert.Equal(t, "150", last[4])

	archive, err := f.GetRows(SheetArchive)
	require.NoError(t, err)
	require.Len(t, archive, 3) // header, deleted expense, completed todo
	assert.Equal(t, "e2", archive[1][2])
	assert.Equal(t, "completed", archive[2][7])

	total, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "100", total)
}
