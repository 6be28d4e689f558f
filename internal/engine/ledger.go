package engine

import "github.com/teamfortytwo/atlas/internal/domain"

// Ledger is the append-only record of executed trades. Entries are never
// mutated or removed individually; Reset discards the whole history at once.
// The Ledger carries no lock of its own: the Engine serializes all access
// under its mutex.
type Ledger struct {
	trades []domain.Transaction
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records a transaction at the end of the history.
func (l *Ledger) Append(tx domain.Transaction) {
	l.trades = append(l.trades, tx)
}

// All returns the full history in insertion order. The returned slice is a
// copy; replaying it is always safe.
func (l *Ledger) All() []domain.Transaction {
	return append([]domain.Transaction(nil), l.trades...)
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	return len(l.trades)
}

// Reset discards the entire history.
func (l *Ledger) Reset() {
	l.trades = nil
}
