// Package export writes the collections to an XLSX workbook: a summary sheet,
// one sheet per record collection, and the archive.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/hisab/internal/calculator"
	"github.com/mmynk/hisab/internal/models"
)

// Sheet names, in workbook order.
const (
	SheetSummary  = "Summary"
	SheetExpenses = "Expenses"
	SheetLoans    = "Loans"
	SheetDebts    = "Debts"
	SheetTodos    = "Todos"
	SheetArchive  = "Archive"
)

const timeLayout = "2006-01-02 15:04"

// Write builds the workbook for s and writes it to w.
func Write(w io.Writer, s models.Snapshot, now time.Time) error {
	f, err := Workbook(s, now)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook for s. The caller must Close it.
func Workbook(s models.Snapshot, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	b := &builder{f: f}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	b.styles()

	b.summary(s, now)
	b.expenses(s.Expenses)
	b.loans(s.Loans)
	b.debts(s.Debts)
	b.todos(s.Todos)
	b.archive(s)

	if b.err != nil {
		f.Close()
		return nil, b.err
	}
	return f, nil
}

// builder keeps the first excelize error so sheets can be filled without
// checking every cell write.
type builder struct {
	f      *excelize.File
	header int
	total  int
	err    error
}

func (b *builder) styles() {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	b.header, b.err = b.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1AB394"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if b.err != nil {
		return
	}
	b.total, b.err = b.f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: border,
	})
}

func (b *builder) sheet(name string, headers ...string) {
	if b.err != nil {
		return
	}
	if name != SheetSummary {
		if _, b.err = b.f.NewSheet(name); b.err != nil {
			return
		}
	}
	b.row(name, 1, toAny(headers)...)
	if b.err != nil {
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	b.err = b.f.SetCellStyle(name, "A1", last, b.header)
	if b.err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(headers))
		b.err = b.f.SetColWidth(name, "A", lastCol, 18)
	}
}

func (b *builder) row(sheet string, row int, values ...any) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetSheetRow(sheet, cell, &values)
}

func (b *builder) totalRow(sheet string, row, cols int, values ...any) {
	b.row(sheet, row, values...)
	if b.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	b.err = b.f.SetCellStyle(sheet, first, last, b.total)
}

func (b *builder) summary(s models.Snapshot, now time.Time) {
	b.sheet(SheetSummary, "Item", "Value")
	debts := calculator.SummarizeDebts(s.Debts)
	today := calculator.Progress(calculator.TodosForDay(s.Todos, now))
	rows := [][]any{
		{"Exported at", now.Format(timeLayout)},
		{"Expense total", money(calculator.ExpenseTotal(s.Expenses))},
		{"Loans outstanding", money(calculator.OutstandingLoans(s.Loans))},
		{"Debts receivable", money(debts.Receivable)},
		{"Debts payable", money(debts.Payable)},
		{"Todos today", fmt.Sprintf("%d/%d", today.Completed, today.Total)},
	}
	for i, r := range rows {
		b.row(SheetSummary, i+2, r...)
	}

	row := len(rows) + 3
	b.row(SheetSummary, row, "Category", "Total")
	for _, t := range calculator.ExpenseTotalsByCategory(s.Expenses) {
		row++
		b.row(SheetSummary, row, t.Title, money(t.Total))
	}
}

func (b *builder) expenses(expenses []models.Expense) {
	b.sheet(SheetExpenses, "ID", "Title", "Amount", "Date")
	row := 1
	for _, e := range calculator.ActiveExpenses(expenses) {
		row++
		b.row(SheetExpenses, row, e.ID, e.Title, money(e.Amount), e.Date.Format(timeLayout))
	}
	b.totalRow(SheetExpenses, row+1, 4, "Total", "", money(calculator.ExpenseTotal(expenses)), "")
}

func (b *builder) loans(loans []models.Loan) {
	b.sheet(SheetLoans, "ID", "Person", "Type", "Amount", "Signed", "Date")
	row := 1
	for _, l := range loans {
		if l.Deleted {
			continue
		}
		row++
		b.row(SheetLoans, row, l.ID, l.Person, string(l.Type), money(l.Amount), money(calculator.LoanSigned(l)), l.Date.Format(timeLayout))
	}
	for _, p := range calculator.LoanBalances(loans) {
		row++
		b.totalRow(SheetLoans, row, 6, "Balance", p.Person, "", "", money(p.NetBalance), "")
	}
}

func (b *builder) debts(debts []models.Debt) {
	b.sheet(SheetDebts, "ID", "Person", "Type", "Amount", "Signed", "Date")
	row := 1
	for _, d := range debts {
		if d.Deleted {
			continue
		}
		row++
		b.row(SheetDebts, row, d.ID, d.Person, string(d.Type), money(d.Amount), money(calculator.DebtSigned(d)), d.Date.Format(timeLayout))
	}
	for _, p := range calculator.DebtBalances(debts) {
		row++
		b.totalRow(SheetDebts, row, 6, "Balance", p.Person, "", "", money(p.NetBalance), "")
	}
}

func (b *builder) todos(todos []models.Todo) {
	b.sheet(SheetTodos, "ID", "Text", "Date", "Completed")
	row := 1
	for _, t := range todos {
		if t.Deleted {
			continue
		}
		row++
		b.row(SheetTodos, row, t.ID, t.Text, t.Date, t.Completed)
	}
}

func (b *builder) archive(s models.Snapshot) {
	b.sheet(SheetArchive, "Collection", "Month", "ID", "Label", "Detail", "Amount", "Date", "Status")
	row := 1
	for _, c := range models.RecordCollections {
		for _, m := range calculator.Archive(s, c) {
			for _, e := range m.Entries {
				row++
				b.row(SheetArchive, row, string(c), m.Month, e.ID, e.Label, e.Detail, money(e.Amount), e.Date.Format(timeLayout), string(e.Status))
			}
		}
	}
}

// money converts an amount to a float cell value; spreadsheets store doubles.
func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
