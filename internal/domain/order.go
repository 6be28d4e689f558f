package domain

import "time"

// OrderID identifies a buy order in the book.
type OrderID int64

// BuyOrder is a standing bid: the bidder pays at most Price for a sell-side
// entry yielding at least MinYield. Amount is informational; matching is per
// unit with no partial fills.
//
// Lifecycle: Open -> Filled (removed from the book the instant it matches).
// Cancellation before a match simply removes it from Open.
type BuyOrder struct {
	ID        OrderID
	Price     float64 // maximum willing to pay, ETH
	Amount    int
	Total     float64 // Price * Amount, display only
	MinYield  float64 // minimum acceptable yield, percent
	Address   string
	CreatedAt time.Time
}

// BuyOrderDraft carries user-supplied order fields. Price, Amount, and
// MinYield arrive as strings from the form boundary; the order book parses and
// validates them before the order exists, so a partially-numeric order can
// never be stored.
type BuyOrderDraft struct {
	Price    string `json:"price"`
	Amount   string `json:"amount"`
	MinYield string `json:"min_yield"`
	Address  string `json:"address"`
}
