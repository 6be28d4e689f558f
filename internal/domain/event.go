package domain

import "time"

// EventType enumerates the engine events delivered to subscribers (the
// WebSocket hub and the notifier).
type EventType string

const (
	EventListingUpdated   EventType = "listing_updated"
	EventOrderBookUpdated EventType = "order_book_updated"
	EventTradeExecuted    EventType = "trade_executed"
	EventHistoryReset     EventType = "history_reset"
)

// Event is one engine notification. Payload is nil for events that carry no
// data beyond their type; trade_executed carries the Transaction.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}
