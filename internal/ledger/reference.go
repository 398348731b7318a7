package ledger

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mmynk/hisab/internal/models"
)

// AddName appends a person to the names table.
func (l *Ledger) AddName(name string) (string, error) {
	return addUnique(&l.data.Names, models.CollectionNames, "name", name)
}

// DeleteName removes a person from the names table. Records that reference
// the name are left as they are.
func (l *Ledger) DeleteName(name string) error {
	return removeValue(&l.data.Names, models.CollectionNames, name)
}

// MoveName moves a name to position to (clamped to the table bounds).
func (l *Ledger) MoveName(name string, to int) error {
	return moveValue(l.data.Names, models.CollectionNames, name, to)
}

// AddCategory appends an expense label.
func (l *Ledger) AddCategory(category string) (string, error) {
	return addUnique(&l.data.Categories, models.CollectionCategories, "category", category)
}

// DeleteCategory removes an expense label. Expenses keep their title.
func (l *Ledger) DeleteCategory(category string) error {
	return removeValue(&l.data.Categories, models.CollectionCategories, category)
}

// MoveCategory moves a category to position to (clamped to the table bounds).
func (l *Ledger) MoveCategory(category string, to int) error {
	return moveValue(l.data.Categories, models.CollectionCategories, category, to)
}

// RestoreDefaultCategories resets the categories to the five defaults.
func (l *Ledger) RestoreDefaultCategories() {
	l.data.Categories = models.DefaultCategories()
}

// canonical trims and NFC-normalizes a label so visually identical Bengali
// input compares equal.
func canonical(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

func indexCanonical(table []string, value string) int {
	return slices.IndexFunc(table, func(s string) bool { return canonical(s) == value })
}

func addUnique(table *[]string, c models.Collection, field, value string) (string, error) {
	value = canonical(value)
	if value == "" {
		return "", invalid(field, "required")
	}
	if indexCanonical(*table, value) >= 0 {
		return "", fmt.Errorf("%s %q: %w", c, value, ErrDuplicate)
	}
	*table = append(*table, value)
	return value, nil
}

func removeValue(table *[]string, c models.Collection, value string) error {
	i := indexCanonical(*table, canonical(value))
	if i < 0 {
		return fmt.Errorf("%s %q: %w", c, value, ErrNotFound)
	}
	*table = slices.Delete(*table, i, i+1)
	return nil
}

func moveValue(table []string, c models.Collection, value string, to int) error {
	from := indexCanonical(table, canonical(value))
	if from < 0 {
		return fmt.Errorf("%s %q: %w", c, value, ErrNotFound)
	}
	to = max(0, min(to, len(table)-1))
	if from == to {
		return nil
	}
	moved := table[from]
	if from < to {
		copy(table[from:to], table[from+1:to+1])
	} else {
		copy(table[to+1:from+1], table[to:from])
	}
	table[to] = moved
	return nil
}
