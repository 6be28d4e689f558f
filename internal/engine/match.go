package engine

import "github.com/teamfortytwo/atlas/internal/domain"

// matchPass runs one deterministic matching pass over the buy book. Buy
// orders are visited in insertion order, never reordered by price or time.
// Each order takes the FIRST sell entry satisfying
//
//	sell.Yield >= buy.MinYield && sell.Price <= buy.Price
//
// rather than the best one; the simplicity is deliberate. Matching is
// mutate-then-continue: the matched listings are cleared from sale, the buy
// order leaves the book, the transaction is appended, and the sell side is
// re-derived before the next buy order is evaluated, so a listing consumed
// early in the pass cannot satisfy a later order.
//
// A buy order with no qualifying sell entry simply stays open; that is not an
// error. Must be called with the mutex held.
func (e *Engine) matchPass() []domain.Transaction {
	var executed []domain.Transaction

	// Snapshot the order list; orders matched mid-pass are removed from
	// e.buy but the pass still visits each original order exactly once.
	pending := append([]domain.BuyOrder(nil), e.buy...)

	for _, buy := range pending {
		matched := -1
		for i, s := range e.sell {
			if s.Yield >= buy.MinYield && s.Price <= buy.Price {
				matched = i
				break
			}
		}
		if matched < 0 {
			continue
		}

		sell := e.sell[matched]
		e.clearSale(sell)
		e.removeBuy(buy.ID)

		tx := domain.Transaction{
			ID:         e.newTxID(),
			Timestamp:  e.now(),
			Buy:        buy,
			Sell:       sell,
			Price:      sell.Price,
			YieldRatio: sell.Yield,
		}
		e.ledger.Append(tx)
		executed = append(executed, tx)

		e.sell = SellSide(e.listings)
	}

	return executed
}

// clearSale takes every listing backing the matched sell entry off sale,
// resetting ForSale and BundleID together. Must be called with the mutex
// held.
func (e *Engine) clearSale(entry domain.SellEntry) {
	for _, m := range entry.Listings {
		if i := e.findListing(m.ID); i >= 0 {
			e.listings[i].ForSale = false
			e.listings[i].BundleID = nil
		}
	}
}
