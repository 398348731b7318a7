package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/hisab/internal/models"
)

// PersonBalance is the net balance with one counterparty.
type PersonBalance struct {
	Person     string
	NetBalance decimal.Decimal // Positive = person owes the user, Negative = user owes the person
	Entries    int
}

// DebtSummary splits per-person debt balances into both directions.
type DebtSummary struct {
	Receivable decimal.Decimal // Sum of positive balances ("পাবো")
	Payable    decimal.Decimal // Sum of absolute negative balances ("দেবো")
}

// LoanSigned returns the signed contribution of a loan entry: money lent
// counts up, a repayment ("sodh") counts down.
func LoanSigned(l models.Loan) decimal.Decimal {
	if l.Type == models.LoanRepaid {
		return l.Amount.Neg()
	}
	return l.Amount
}

// DebtSigned returns the signed contribution of a debt entry: money the user
// gave counts up (the person owes it back), money received counts down.
func DebtSigned(d models.Debt) decimal.Decimal {
	if d.Type == models.DebtReceive {
		return d.Amount.Neg()
	}
	return d.Amount
}

// LoanBalances computes the net balance per person over non-deleted loans,
// in order of each person's first entry.
func LoanBalances(loans []models.Loan) []PersonBalance {
	acc := newAccumulator()
	for _, l := range loans {
		if l.Deleted {
			continue
		}
		acc.add(l.Person, LoanSigned(l))
	}
	return acc.balances()
}

// DebtBalances computes the net balance per person over non-deleted debts,
// in order of each person's first entry.
func DebtBalances(debts []models.Debt) []PersonBalance {
	acc := newAccumulator()
	for _, d := range debts {
		if d.Deleted {
			continue
		}
		acc.add(d.Person, DebtSigned(d))
	}
	return acc.balances()
}

// LoanBalance is the net loan balance with one person.
func LoanBalance(loans []models.Loan, person string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range loans {
		if l.Deleted || l.Person != person {
			continue
		}
		total = total.Add(LoanSigned(l))
	}
	return total
}

// DebtBalance is the net debt balance with one person.
func DebtBalance(debts []models.Debt, person string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if d.Deleted || d.Person != person {
			continue
		}
		total = total.Add(DebtSigned(d))
	}
	return total
}

// OutstandingLoans sums every person's net loan balance.
func OutstandingLoans(loans []models.Loan) decimal.Decimal {
	total := decimal.Zero
	for _, b := range LoanBalances(loans) {
		total = total.Add(b.NetBalance)
	}
	return total
}

// SummarizeDebts totals what the user will receive and what the user owes.
func SummarizeDebts(debts []models.Debt) DebtSummary {
	sum := DebtSummary{Receivable: decimal.Zero, Payable: decimal.Zero}
	for _, b := range DebtBalances(debts) {
		if b.NetBalance.IsPositive() {
			sum.Receivable = sum.Receivable.Add(b.NetBalance)
		} else if b.NetBalance.IsNegative() {
			sum.Payable = sum.Payable.Add(b.NetBalance.Abs())
		}
	}
	return sum
}

// LoanHistory returns the non-deleted loan entries with one person.
func LoanHistory(loans []models.Loan, person string) []models.Loan {
	var out []models.Loan
	for _, l := range loans {
		if !l.Deleted && l.Person == person {
			out = append(out, l)
		}
	}
	return out
}

// DebtHistory returns the non-deleted debt entries with one person.
func DebtHistory(debts []models.Debt, person string) []models.Debt {
	var out []models.Debt
	for _, d := range debts {
		if !d.Deleted && d.Person == person {
			out = append(out, d)
		}
	}
	return out
}

// accumulator keeps per-person totals in first-seen order.
type accumulator struct {
	order  []string
	totals map[string]*PersonBalance
}

func newAccumulator() *accumulator {
	return &accumulator{totals: make(map[string]*PersonBalance)}
}

func (a *accumulator) add(person string, amount decimal.Decimal) {
	b, exists := a.totals[person]
	if !exists {
		b = &PersonBalance{Person: person, NetBalance: decimal.Zero}
		a.totals[person] = b
		a.order = append(a.order, person)
	}
	b.NetBalance = b.NetBalance.Add(amount)
	b.Entries++
}

func (a *accumulator) balances() []PersonBalance {
	out := make([]PersonBalance, 0, len(a.order))
	for _, p := range a.order {
		out = append(out, *a.totals[p])
	}
	return out
}
