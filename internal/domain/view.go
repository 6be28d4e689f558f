package domain

// SortKey selects the column used to order the listing table.
type SortKey string

const (
	SortKeyNone       SortKey = ""
	SortKeyName       SortKey = "name"
	SortKeyPrice      SortKey = "price"
	SortKeyYield      SortKey = "yield"
	SortKeyYieldPrice SortKey = "yieldPrice" // yield / price
)

// SortDirection is the current ordering direction. Selecting the same key
// twice in a row flips the direction.
type SortDirection string

const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// MarketView is the derived snapshot returned by every engine entry point:
// the listing table under the current sort, both sides of the order book, and
// the full transaction history. All slices are copies owned by the caller.
type MarketView struct {
	SortKey   SortKey
	Direction SortDirection
	Listings  []Listing
	Buy       []BuyOrder
	Sell      []SellEntry
	Trades    []Transaction
}
