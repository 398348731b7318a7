package models

import "time"

// LastUpdatedLayout is the ISO-8601 layout of Snapshot.LastUpdated.
const LastUpdatedLayout = "2006-01-02T15:04:05.000Z07:00"

// Snapshot is the complete set of collections. It is the payload of every
// full-replace remote write; a remote snapshot with a nil collection did not
// carry that field.
type Snapshot struct {
	Expenses    []Expense `json:"expenses"`
	Debts       []Debt    `json:"debts"`
	Loans       []Loan    `json:"loans"`
	Todos       []Todo    `json:"todos"`
	Names       []string  `json:"names"`
	Categories  []string  `json:"categories"`
	LastUpdated string    `json:"lastUpdated,omitempty"`
}

// EmptySnapshot returns the state of a first use: every collection empty and
// the default categories.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Expenses:   []Expense{},
		Debts:      []Debt{},
		Loans:      []Loan{},
		Todos:      []Todo{},
		Names:      []string{},
		Categories: DefaultCategories(),
	}
}

// Stamp returns a copy of s with LastUpdated set to t in UTC.
func (s Snapshot) Stamp(t time.Time) Snapshot {
	s.LastUpdated = t.UTC().Format(LastUpdatedLayout)
	return s
}

// Clone returns a deep copy of s. Nil collections stay nil.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Expenses:    cloneSlice(s.Expenses),
		Debts:       cloneSlice(s.Debts),
		Loans:       cloneSlice(s.Loans),
		Todos:       cloneSlice(s.Todos),
		Names:       cloneSlice(s.Names),
		Categories:  cloneSlice(s.Categories),
		LastUpdated: s.LastUpdated,
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
