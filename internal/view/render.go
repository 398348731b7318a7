package view

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/hisab/internal/calculator"
	"github.com/mmynk/hisab/internal/models"
)

// Model is everything a screen needs. Render never reads anything else.
type Model struct {
	Snapshot  models.Snapshot
	Now       time.Time
	User      string // display name, or "" when signed out
	SyncState string
	Notice    string // one-line message, e.g. a sync warning
}

// Render writes the screen for v.
func Render(w io.Writer, v View, m Model) error {
	p := &printer{w: w}
	p.header(v, m)

	switch v := v.(type) {
	case Dashboard:
		p.dashboard(m)
	case Expenses:
		p.expenses(m)
	case Loans:
		p.loans(m)
	case LoanDetail:
		p.loanDetail(m, v.Person)
	case Debts:
		p.debts(m)
	case DebtDetail:
		p.debtDetail(m, v.Person)
	case Todos:
		p.todos(m)
	case Settings:
		p.settings(m)
	case Report:
		p.report(m, v.Collection)
	case Login:
		p.login(m)
	default:
		return fmt.Errorf("unknown view %T", v)
	}
	return p.err
}

// printer remembers the first write error so screens can print freely.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) table(rows [][]string) {
	if p.err != nil || len(rows) == 0 {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	p.err = tw.Flush()
}

func (p *printer) header(v View, m Model) {
	if _, ok := v.(Dashboard); ok {
		greeting := Greeting(m.Now)
		if m.User != "" {
			greeting += ", " + m.User
		}
		p.printf("%s • %s\n%s\n%s\n", greeting, Period(m.Now), Clock(m.Now), Date(m.Now))
	} else {
		p.printf("== %s ==\n", Title(v))
	}
	if m.Notice != "" {
		p.printf("! %s\n", m.Notice)
	}
	p.printf("\n")
}

func (p *printer) dashboard(m Model) {
	s := m.Snapshot
	debts := calculator.SummarizeDebts(s.Debts)
	today := calculator.Progress(calculator.TodosForDay(s.Todos, m.Now))
	p.table([][]string{
		{"আমার খরচ", Amount(calculator.ExpenseTotal(s.Expenses))},
		{"আমার ঋণ", Amount(calculator.OutstandingLoans(s.Loans))},
		{"হিসাব খাতা", "পাবো " + Amount(debts.Receivable) + " / দেবো " + Amount(debts.Payable)},
		{"কাজের তালিকা", Int(today.Completed) + "/" + Int(today.Total)},
	})
	if m.SyncState != "" {
		p.printf("\nsync: %s\n", m.SyncState)
	}
}

func (p *printer) expenses(m Model) {
	active := calculator.ActiveExpenses(m.Snapshot.Expenses)
	p.printf("মোট খরচ: %s\n\n", Amount(calculator.ExpenseTotal(active)))
	if len(active) == 0 {
		p.printf("কোনো খরচ নেই\n")
		return
	}
	rows := make([][]string, 0, len(active))
	for i := len(active) - 1; i >= 0; i-- {
		e := active[i]
		rows = append(rows, []string{e.ID, e.Title, "- " + Amount(e.Amount), Date(e.Date)})
	}
	p.table(rows)

	if totals := calculator.ExpenseTotalsByCategory(active); len(totals) > 1 {
		p.printf("\n")
		rows = rows[:0]
		for _, t := range totals {
			rows = append(rows, []string{t.Title, Amount(t.Total)})
		}
		p.table(rows)
	}
}

func (p *printer) loans(m Model) {
	p.printf("মোট পাওনা: %s\n\n", Amount(calculator.OutstandingLoans(m.Snapshot.Loans)))
	p.balances(calculator.LoanBalances(m.Snapshot.Loans), "বাকি", "পরিশোধিত")
}

func (p *printer) debts(m Model) {
	sum := calculator.SummarizeDebts(m.Snapshot.Debts)
	p.printf("পাবো: %s\nদেবো: %s\n\n", Amount(sum.Receivable), Amount(sum.Payable))
	p.balances(calculator.DebtBalances(m.Snapshot.Debts), "পাবো", "দেবো")
}

func (p *printer) balances(list []calculator.PersonBalance, positive, negative string) {
	if len(list) == 0 {
		p.printf("কোনো হিসাব নেই\n")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		label := positive
		if b.NetBalance.IsNegative() {
			label = negative
		} else if b.NetBalance.IsZero() {
			label = "সমান"
		}
		rows = append(rows, []string{b.Person, Amount(b.NetBalance.Abs()), label, Int(b.Entries) + " টি লেনদেন"})
	}
	p.table(rows)
}

func (p *printer) loanDetail(m Model, person string) {
	net := calculator.LoanBalance(m.Snapshot.Loans, person)
	status := "(পরিশোধিত)"
	if net.IsPositive() {
		status = "(বাকি)"
	}
	p.printf("%s %s\n\n", Amount(net.Abs()), status)

	history := calculator.LoanHistory(m.Snapshot.Loans, person)
	rows := make([][]string, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		l := history[i]
		rows = append(rows, []string{l.ID, signed(calculator.LoanSigned(l)), loanLabel(l.Type), Date(l.Date)})
	}
	p.table(rows)
}

func (p *printer) debtDetail(m Model, person string) {
	net := calculator.DebtBalance(m.Snapshot.Debts, person)
	status := "(সমান)"
	switch {
	case net.IsPositive():
		status = "(পাবো)"
	case net.IsNegative():
		status = "(দেবো)"
	}
	p.printf("%s %s\n\n", Amount(net.Abs()), status)

	history := calculator.DebtHistory(m.Snapshot.Debts, person)
	rows := make([][]string, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		d := history[i]
		rows = append(rows, []string{d.ID, signed(calculator.DebtSigned(d)), debtLabel(d.Type), Date(d.Date)})
	}
	p.table(rows)
}

func (p *printer) todos(m Model) {
	today := calculator.TodosForDay(m.Snapshot.Todos, m.Now)
	prog := calculator.Progress(today)
	p.printf("%s\nসম্পন্ন %s/%s (%s%%), বাকি %s\n\n",
		LongDate(m.Now), Int(prog.Completed), Int(prog.Total), Int(prog.Percent), Int(prog.Remaining))
	rows := make([][]string, 0, len(today))
	for _, t := range today {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		rows = append(rows, []string{mark, t.ID, t.Text})
	}
	p.table(rows)
}

func (p *printer) settings(m Model) {
	p.printf("নামের তালিকা:\n")
	p.list(m.Snapshot.Names)
	p.printf("\nখরচের ধরন:\n")
	p.list(m.Snapshot.Categories)
	if m.User != "" {
		p.printf("\nপ্রোফাইল: %s\n", m.User)
	}
}

func (p *printer) list(items []string) {
	if len(items) == 0 {
		p.printf("  (খালি)\n")
		return
	}
	for i, it := range items {
		p.printf("  %s. %s\n", Int(i+1), it)
	}
}

func (p *printer) report(m Model, c models.Collection) {
	months := calculator.Archive(m.Snapshot, c)
	p.printf("%s: %s টি আর্কাইভ\n", c, Int(calculator.ArchiveCount(m.Snapshot, c)))
	for _, month := range months {
		p.printf("\n%s\n", Month(month.Month))
		rows := make([][]string, 0, len(month.Entries))
		for _, e := range month.Entries {
			row := []string{e.ID, e.Label}
			if c != models.CollectionTodos {
				row = append(row, Amount(e.Amount))
			}
			if e.Detail != "" {
				row = append(row, e.Detail)
			}
			row = append(row, Date(e.Date), statusLabel(e.Status))
			rows = append(rows, row)
		}
		p.table(rows)
	}
}

func (p *printer) login(m Model) {
	p.printf("হিসাব সিঙ্ক করতে লগইন করুন।\n")
	p.printf("  hisab login --email <email>\n  hisab register --email <email> --name <name>\n")
	if m.SyncState != "" {
		p.printf("\nsync: %s\n", m.SyncState)
	}
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return "- " + Amount(d.Abs())
	}
	return "+ " + Amount(d)
}

func loanLabel(t models.LoanType) string {
	if t == models.LoanRepaid {
		return "শোধ"
	}
	return "ঋণ"
}

func debtLabel(t models.DebtType) string {
	if t == models.DebtReceive {
		return "নিলাম"
	}
	return "দিলাম"
}

func statusLabel(s calculator.ArchiveStatus) string {
	if s == calculator.StatusCompleted {
		return "সম্পন্ন"
	}
	return "মুছে ফেলা"
}
