package domain

import (
	"context"
	"io"
	"time"
)

// PriceCache stores the most recently fetched node price so other processes
// can read it. Implementations are best-effort; callers treat failures as
// non-fatal.
type PriceCache interface {
	SetNodePrice(ctx context.Context, price float64, ts time.Time) error
	GetNodePrice(ctx context.Context) (float64, time.Time, error)
}

// BlobWriter uploads a single object to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// HistoryArchiver exports a transaction history snapshot before it is
// discarded by an admin reset. Exports are write-only; nothing is ever
// restored from them.
type HistoryArchiver interface {
	ArchiveHistory(ctx context.Context, trades []Transaction) (string, error)
}
