// Package engine implements the Atlas marketplace core: the listing store,
// the bundle aggregator, the buy-side order book, the matching engine, and
// the transaction ledger, wired as one synchronous reactive pipeline.
//
// Every mutating entry point runs the same sequence under a single mutex:
// validate, apply, recompute the sell side, run matching passes to a fixed
// point, emit events, and return the updated derived views. The mutex is the
// global ordering point that keeps the first-found, mutate-then-continue
// matching semantics deterministic when the HTTP server introduces concurrent
// callers, and it guarantees a buy order executes at most once.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// eventBufferSize is the capacity of the subscriber event channel. Events for
// slow consumers are dropped rather than blocking a mutation.
const eventBufferSize = 256

// Engine owns all marketplace state. Construct with New; all methods are safe
// for concurrent use.
type Engine struct {
	mu sync.Mutex

	listings      []domain.Listing
	nextListingID domain.ListingID

	buy         []domain.BuyOrder
	nextOrderID domain.OrderID

	sell   []domain.SellEntry
	ledger *Ledger

	users map[string]domain.UserProfile

	sortKey domain.SortKey
	sortDir domain.SortDirection

	events chan domain.Event
	logger *slog.Logger

	// Overridable in tests for deterministic output.
	now       func() time.Time
	newTxID   func() uuid.UUID
	newBundle func() domain.BundleID
}

// New creates an empty Engine. Call LoadFixtures to populate the demo data
// set the original marketplace ships with.
func New(logger *slog.Logger) *Engine {
	return &Engine{
		nextListingID: 1,
		nextOrderID:   1,
		ledger:        NewLedger(),
		users:         make(map[string]domain.UserProfile),
		sortDir:       domain.SortAscending,
		events:        make(chan domain.Event, eventBufferSize),
		logger:        logger.With(slog.String("component", "engine")),
		now:           func() time.Time { return time.Now().UTC() },
		newTxID:       uuid.New,
		newBundle:     domain.NewBundleID,
	}
}

// Events returns the engine's event stream. The channel is never closed;
// consumers stop reading when their context ends.
func (e *Engine) Events() <-chan domain.Event {
	return e.events
}

// View returns the current derived snapshot without mutating anything.
func (e *Engine) View() domain.MarketView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// History returns the full transaction history in insertion order.
func (e *Engine) History() []domain.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.All()
}

// ResetHistory clears the ledger unconditionally. Authorization is enforced
// at the server boundary; the engine itself has no notion of callers.
func (e *Engine) ResetHistory() domain.MarketView {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.ledger.Len()
	e.ledger.Reset()
	e.logger.Info("transaction history reset", slog.Int("discarded", n))
	e.emit(domain.Event{Type: domain.EventHistoryReset, Timestamp: e.now()})
	return e.viewLocked()
}

// User returns the profile for the given username.
func (e *Engine) User(username string) (domain.UserProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, ok := e.users[username]
	if !ok {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	return u, nil
}

// react re-derives the sell side and runs matching passes until no further
// match is possible. It must be called with the mutex held after every
// mutation of listings or the buy book. The returned transactions were
// executed by this invocation.
func (e *Engine) react() []domain.Transaction {
	var executed []domain.Transaction
	for {
		e.sell = SellSide(e.listings)
		txs := e.matchPass()
		if len(txs) == 0 {
			break
		}
		executed = append(executed, txs...)
	}
	return executed
}

// finish emits the events owed after a mutation and builds the caller's view.
// Must be called with the mutex held.
func (e *Engine) finish(executed []domain.Transaction) domain.MarketView {
	e.emit(domain.Event{Type: domain.EventOrderBookUpdated, Timestamp: e.now()})
	for _, tx := range executed {
		e.logger.Info("trade executed",
			slog.String("tx_id", tx.ID.String()),
			slog.Float64("price", tx.Price),
			slog.Float64("yield", tx.YieldRatio),
			slog.String("buyer", tx.Buy.Address),
		)
		e.emit(domain.Event{Type: domain.EventTradeExecuted, Timestamp: tx.Timestamp, Payload: tx})
	}
	return e.viewLocked()
}

// emit delivers an event without ever blocking a mutation; when the buffer is
// full the event is dropped.
func (e *Engine) emit(ev domain.Event) {
	select {
	case e.events <- ev:
	default:
		e.logger.Warn("event dropped, subscriber too slow", slog.String("type", string(ev.Type)))
	}
}

// viewLocked assembles the derived snapshot. Must be called with the mutex
// held. All returned slices are copies.
func (e *Engine) viewLocked() domain.MarketView {
	return domain.MarketView{
		SortKey:   e.sortKey,
		Direction: e.sortDir,
		Listings:  sortedCopy(e.listings, e.sortKey, e.sortDir),
		Buy:       append([]domain.BuyOrder(nil), e.buy...),
		Sell:      append([]domain.SellEntry(nil), e.sell...),
		Trades:    e.ledger.All(),
	}
}

// findListing returns the index of the listing with the given id, or -1.
// Must be called with the mutex held.
func (e *Engine) findListing(id domain.ListingID) int {
	for i := range e.listings {
		if e.listings[i].ID == id {
			return i
		}
	}
	return -1
}
