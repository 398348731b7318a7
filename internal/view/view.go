// Package view renders the application screens as text. A View is a closed
// set of variants; Render dispatches on it exhaustively.
package view

import (
	"fmt"
	"strings"

	"github.com/mmynk/hisab/internal/models"
)

// View is one screen of the application.
type View interface {
	// Name is the stable identifier used for navigation.
	Name() string
	isView()
}

type (
	Dashboard  struct{}
	Expenses   struct{}
	Loans      struct{}
	LoanDetail struct{ Person string }
	Debts      struct{}
	DebtDetail struct{ Person string }
	Todos      struct{}
	Settings   struct{}
	Report     struct{ Collection models.Collection }
	Login      struct{}
)

func (Dashboard) Name() string  { return "dashboard" }
func (Expenses) Name() string   { return "expenses" }
func (Loans) Name() string      { return "loans" }
func (LoanDetail) Name() string { return "loan-detail" }
func (Debts) Name() string      { return "debts" }
func (DebtDetail) Name() string { return "debt-detail" }
func (Todos) Name() string      { return "todos" }
func (Settings) Name() string   { return "settings" }
func (Report) Name() string     { return "report" }
func (Login) Name() string      { return "login" }

func (Dashboard) isView()  {}
func (Expenses) isView()   {}
func (Loans) isView()      {}
func (LoanDetail) isView() {}
func (Debts) isView()      {}
func (DebtDetail) isView() {}
func (Todos) isView()      {}
func (Settings) isView()   {}
func (Report) isView()     {}
func (Login) isView()      {}

// Parse resolves a view by name. Detail views take the person as arg; the
// report takes a record collection (default expenses).
func Parse(name, arg string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dashboard", "home":
		return Dashboard{}, nil
	case "expenses":
		return Expenses{}, nil
	case "loans":
		return Loans{}, nil
	case "loan-detail":
		if arg == "" {
			return nil, fmt.Errorf("loan-detail needs a person")
		}
		return LoanDetail{Person: arg}, nil
	case "debts":
		return Debts{}, nil
	case "debt-detail":
		if arg == "" {
			return nil, fmt.Errorf("debt-detail needs a person")
		}
		return DebtDetail{Person: arg}, nil
	case "todos":
		return Todos{}, nil
	case "settings":
		return Settings{}, nil
	case "report":
		c := models.CollectionExpenses
		if arg != "" {
			var err error
			if c, err = models.ParseRecordCollection(arg); err != nil {
				return nil, err
			}
		}
		return Report{Collection: c}, nil
	case "login":
		return Login{}, nil
	}
	return nil, fmt.Errorf("unknown view %q", name)
}

// Title is the screen heading.
func Title(v View) string {
	switch v := v.(type) {
	case Dashboard:
		return "মূলপাতা"
	case Expenses:
		return "আমার খরচ"
	case Loans:
		return "আমার ঋণ"
	case LoanDetail:
		return v.Person
	case Debts:
		return "হিসাব খাতা"
	case DebtDetail:
		return v.Person
	case Todos:
		return "আজকের কাজ"
	case Settings:
		return "সেটিং"
	case Report:
		return "প্রতিবেদন"
	case Login:
		return "লগইন"
	}
	return ""
}
