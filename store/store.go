// Package store is the ledger store: family-scoped persistence for work
// logs, finances, debts and timer states. No business rules live here,
// only CRUD, ordering guarantees and aggregates.
package store

import (
	"time"

	"gorm.io/gorm"
)

// Store wraps a gorm connection. All queries are scoped by family id.
type Store struct {
	db *gorm.DB
}

// New creates a Store bound to db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a Store bound to the given transaction handle.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// dayBounds returns the local calendar day containing t as [start, end].
func dayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// monthBounds returns the first instants of t's month and of the next month.
func monthBounds(t time.Time) (time.Time, time.Time) {
	year, month, _ := t.Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
