package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/teamfortytwo/atlas/internal/domain"
)

func TestLedger_AppendOrder(t *testing.T) {
	l := NewLedger()
	if l.Len() != 0 {
		t.Fatalf("new ledger len = %d, want 0", l.Len())
	}

	t1 := domain.Transaction{ID: uuid.New(), Timestamp: time.Now(), Price: 30}
	t2 := domain.Transaction{ID: uuid.New(), Timestamp: time.Now(), Price: 31}
	l.Append(t1)
	l.Append(t2)

	all := l.All()
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].ID != t1.ID || all[1].ID != t2.ID {
		t.Error("transactions not in append order")
	}
}

func TestLedger_AllReturnsCopy(t *testing.T) {
	l := NewLedger()
	l.Append(domain.Transaction{ID: uuid.New(), Price: 30})

	got := l.All()
	got[0].Price = 999

	if l.All()[0].Price != 30 {
		t.Error("mutating the returned slice changed the ledger")
	}
}

func TestLedger_Reset(t *testing.T) {
	l := NewLedger()
	l.Append(domain.Transaction{ID: uuid.New()})
	l.Append(domain.Transaction{ID: uuid.New()})

	l.Reset()
	if l.Len() != 0 {
		t.Errorf("len after reset = %d, want 0", l.Len())
	}
	l.Append(domain.Transaction{ID: uuid.New()})
	if l.Len() != 1 {
		t.Errorf("len after reset and append = %d, want 1", l.Len())
	}
}
