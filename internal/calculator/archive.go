package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/hisab/internal/models"
)

// ArchiveStatus says why an entry is in the archive.
type ArchiveStatus string

const (
	StatusDeleted   ArchiveStatus = "deleted"
	StatusCompleted ArchiveStatus = "completed"
)

// ArchiveEntry is one archived record flattened for display.
type ArchiveEntry struct {
	ID     string
	Label  string
	Detail string // loan/debt type; empty otherwise
	Amount decimal.Decimal
	Date   time.Time
	Status ArchiveStatus
}

// ArchiveMonth groups the archived entries of one calendar month.
type ArchiveMonth struct {
	Month   string // YYYY-MM
	Entries []ArchiveEntry
}

// Archive builds the report view of a record collection: soft-deleted records
// (todos: completed or deleted) grouped by month, newest month first and
// newest entry first within a month.
func Archive(s models.Snapshot, c models.Collection) []ArchiveMonth {
	var entries []ArchiveEntry
	switch c {
	case models.CollectionExpenses:
		for _, e := range s.Expenses {
			if e.Deleted {
				entries = append(entries, ArchiveEntry{ID: e.ID, Label: e.Title, Amount: e.Amount, Date: e.Date, Status: StatusDeleted})
			}
		}
	case models.CollectionLoans:
		for _, l := range s.Loans {
			if l.Deleted {
				entries = append(entries, ArchiveEntry{ID: l.ID, Label: l.Person, Detail: string(l.Type), Amount: l.Amount, Date: l.Date, Status: StatusDeleted})
			}
		}
	case models.CollectionDebts:
		for _, d := range s.Debts {
			if d.Deleted {
				entries = append(entries, ArchiveEntry{ID: d.ID, Label: d.Person, Detail: string(d.Type), Amount: d.Amount, Date: d.Date, Status: StatusDeleted})
			}
		}
	case models.CollectionTodos:
		for _, t := range s.Todos {
			if !t.Deleted && !t.Completed {
				continue
			}
			status := StatusCompleted
			if t.Deleted {
				status = StatusDeleted
			}
			entries = append(entries, ArchiveEntry{ID: t.ID, Label: t.Text, Amount: decimal.Zero, Date: t.Day(), Status: status})
		}
	}
	return groupByMonth(entries)
}

// ArchiveCount is the number of archived entries in a collection.
func ArchiveCount(s models.Snapshot, c models.Collection) int {
	n := 0
	for _, m := range Archive(s, c) {
		n += len(m.Entries)
	}
	return n
}

func groupByMonth(entries []ArchiveEntry) []ArchiveMonth {
	byMonth := make(map[string][]ArchiveEntry)
	for _, e := range entries {
		key := e.Date.Format("2006-01")
		byMonth[key] = append(byMonth[key], e)
	}

	months := make([]ArchiveMonth, 0, len(byMonth))
	for key, list := range byMonth {
		// insertion order is chronological; show newest first
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
		months = append(months, ArchiveMonth{Month: key, Entries: list})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month > months[j].Month })
	return months
}
