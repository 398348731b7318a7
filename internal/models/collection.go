package models

import "fmt"

// Collection names a persisted collection. The value doubles as the local
// storage key and the remote document field.
type Collection string

const (
	CollectionExpenses   Collection = "expenses"
	CollectionDebts      Collection = "debts"
	CollectionLoans      Collection = "loans"
	CollectionTodos      Collection = "todos"
	CollectionNames      Collection = "names"
	CollectionCategories Collection = "categories"
)

// AllCollections lists every persisted collection in document order.
var AllCollections = []Collection{
	CollectionExpenses,
	CollectionDebts,
	CollectionLoans,
	CollectionTodos,
	CollectionNames,
	CollectionCategories,
}

// RecordCollections lists the collections holding id-bearing records.
var RecordCollections = []Collection{
	CollectionExpenses,
	CollectionLoans,
	CollectionDebts,
	CollectionTodos,
}

// IsRecord reports whether c holds id-bearing records (as opposed to a
// reference table of plain strings).
func (c Collection) IsRecord() bool {
	for _, rc := range RecordCollections {
		if rc == c {
			return true
		}
	}
	return false
}

// ParseCollection validates a collection name.
func ParseCollection(s string) (Collection, error) {
	for _, c := range AllCollections {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection: %q", s)
}

// ParseRecordCollection validates the name of an id-bearing collection.
func ParseRecordCollection(s string) (Collection, error) {
	c, err := ParseCollection(s)
	if err != nil {
		return "", err
	}
	if !c.IsRecord() {
		return "", fmt.Errorf("collection %q has no records", s)
	}
	return c, nil
}

// DefaultCategories returns a fresh copy of the categories seeded on first use.
func DefaultCategories() []string {
	return []string{"বাজার খরচ", "বাসা ভাড়া", "যাতায়াত", "মোবাইল বিল", "অন্যান্য"}
}
