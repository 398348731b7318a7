// Package models defines the core domain models for hisab.
//
// # Records
//
// Four record collections are kept as ordered sequences (insertion order is
// chronological order):
//   - Expense: money spent under a category label
//   - Loan: money lent to a person (loan) or repaid by them (sodh)
//   - Debt: an open ledger with a person (give / receive)
//   - Todo: a to-do for one calendar day
//
// Two reference tables are plain unique strings: Names (people) and
// Categories (expense labels, seeded with five defaults).
//
// # Lifecycle
//
// Records are created by an add action, mutated only by toggling Completed
// (todos) or Deleted (soft delete), and destroyed only by a permanent delete
// from the archive. Soft-deleted records stay in storage and are excluded from
// balances and primary lists.
//
// # Snapshot
//
// Snapshot is the full set of collections, the unit of every local save and of
// every full-replace remote write. A nil collection in a Snapshot read from the
// remote side means the field was absent from the document.
package models
