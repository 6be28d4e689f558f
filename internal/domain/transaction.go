package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction records one executed trade: the consumed buy order and the
// sell-side entry it matched, at the sell side's price and yield. Transactions
// are immutable once created; the ledger that owns them is append-only.
type Transaction struct {
	ID         uuid.UUID
	Timestamp  time.Time
	Buy        BuyOrder
	Sell       SellEntry
	Price      float64 // execution price = sell-side price
	YieldRatio float64 // = matched sell-side yield
}
