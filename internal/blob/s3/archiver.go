package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// Archiver implements domain.HistoryArchiver: it serialises a transaction
// history snapshot to JSONL and uploads it before the in-memory ledger is
// reset, so a cleared history is still recoverable from the bucket.
type Archiver struct {
	writer domain.BlobWriter
	now    func() time.Time
}

// NewArchiver creates an Archiver uploading through the given writer.
func NewArchiver(writer domain.BlobWriter) *Archiver {
	return &Archiver{
		writer: writer,
		now:    time.Now,
	}
}

// ArchiveHistory uploads the given transactions as one JSONL object and
// returns the object key. An empty history archives nothing and returns an
// empty key.
func (a *Archiver) ArchiveHistory(ctx context.Context, txs []domain.Transaction) (string, error) {
	if len(txs) == 0 {
		return "", nil
	}

	buf, err := marshalJSONL(txs)
	if err != nil {
		return "", fmt.Errorf("s3blob: archive history marshal: %w", err)
	}

	path := historyPath(a.now().UTC())
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return "", fmt.Errorf("s3blob: archive history upload: %w", err)
	}

	return path, nil
}

// historyPath builds the object key for one archived snapshot, e.g.
//
//	archive/history/20260831T120000Z.jsonl
func historyPath(ts time.Time) string {
	return fmt.Sprintf("archive/history/%s.jsonl", ts.Format("20060102T150405Z"))
}

// marshalJSONL serialises records as newline-delimited JSON, one compact
// line per record.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ domain.HistoryArchiver = (*Archiver)(nil)
