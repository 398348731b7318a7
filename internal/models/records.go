package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DayLayout is the calendar-day format of Todo.Date.
const DayLayout = "2006-01-02"

func init() {
	// Amounts are JSON numbers in the local store and the remote document.
	decimal.MarshalJSONWithoutQuotes = true
}

// LoanType distinguishes money lent out from a repayment received.
type LoanType string

const (
	// LoanGiven is money lent to the person.
	LoanGiven LoanType = "loan"
	// LoanRepaid ("sodh") is a repayment received from the person.
	LoanRepaid LoanType = "sodh"
)

// ParseLoanType validates a loan type.
func ParseLoanType(s string) (LoanType, error) {
	switch LoanType(s) {
	case LoanGiven, LoanRepaid:
		return LoanType(s), nil
	}
	return "", fmt.Errorf("unknown loan type: %q", s)
}

// DebtType is the direction of money flow relative to the user.
type DebtType string

const (
	// DebtGive is money the user gave to the person.
	DebtGive DebtType = "give"
	// DebtReceive is money the user received from the person.
	DebtReceive DebtType = "receive"
)

// ParseDebtType validates a debt type.
func ParseDebtType(s string) (DebtType, error) {
	switch DebtType(s) {
	case DebtGive, DebtReceive:
		return DebtType(s), nil
	}
	return "", fmt.Errorf("unknown debt type: %q", s)
}

// Expense is money spent under a category label.
type Expense struct {
	ID      string          `json:"id,omitempty"`
	Title   string          `json:"title"`
	Amount  decimal.Decimal `json:"amount"`
	Date    time.Time       `json:"date"`
	Deleted bool            `json:"deleted,omitempty"`
}

// Loan is one entry of money lent to, or repaid by, a person.
type Loan struct {
	ID      string          `json:"id,omitempty"`
	Person  string          `json:"person"`
	Amount  decimal.Decimal `json:"amount"`
	Type    LoanType        `json:"type"`
	Date    time.Time       `json:"date"`
	Deleted bool            `json:"deleted,omitempty"`
}

// Debt is one entry of an open-ended ledger with a person.
type Debt struct {
	ID      string          `json:"id,omitempty"`
	Person  string          `json:"person"`
	Amount  decimal.Decimal `json:"amount"`
	Type    DebtType        `json:"type"`
	Date    time.Time       `json:"date"`
	Deleted bool            `json:"deleted,omitempty"`
}

// Todo is a task for a calendar day.
type Todo struct {
	ID        string    `json:"id,omitempty"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Date      string    `json:"date"` // calendar day, DayLayout
	CreatedAt time.Time `json:"createdAt"`
	Deleted   bool      `json:"deleted,omitempty"`
}

// Day parses the todo's calendar day. Legacy records with a malformed day
// fall back to the creation time.
func (t Todo) Day() time.Time {
	if d, err := time.Parse(DayLayout, t.Date); err == nil {
		return d
	}
	return t.CreatedAt
}
