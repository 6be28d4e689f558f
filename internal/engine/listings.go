package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// CreateListing appends a new listing with a fresh sequential id. The listing
// starts off-sale; numeric draft fields must parse to non-negative values or
// the whole draft is rejected with no mutation.
func (e *Engine) CreateListing(draft domain.ListingDraft) (domain.MarketView, error) {
	price, err := parseNonNegativeFloat(draft.Price)
	if err != nil {
		return domain.MarketView{}, fmt.Errorf("engine: create listing price: %w", domain.ErrInvalidListing)
	}
	yield, err := parseNonNegativeFloat(draft.Yield)
	if err != nil {
		return domain.MarketView{}, fmt.Errorf("engine: create listing yield: %w", domain.ErrInvalidListing)
	}
	if strings.TrimSpace(draft.Name) == "" {
		return domain.MarketView{}, fmt.Errorf("engine: create listing name: %w", domain.ErrInvalidListing)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	owner := strings.TrimSpace(draft.Owner)
	if owner == "" {
		owner = "Team42"
	}

	l := domain.Listing{
		ID:          e.nextListingID,
		Name:        strings.TrimSpace(draft.Name),
		Description: draft.Description,
		Price:       price,
		Yield:       yield,
		Owner:       owner,
		Seller:      owner,
		Platform:    "Kiln",
		History: []domain.PricePoint{
			{Date: e.now().Format("2006-01"), Price: price},
		},
	}
	e.nextListingID++
	e.listings = append(e.listings, l)

	e.logger.Info("listing created",
		slog.Int64("listing_id", int64(l.ID)),
		slog.String("name", l.Name),
	)
	e.emit(domain.Event{Type: domain.EventListingUpdated, Timestamp: e.now()})

	return e.finish(e.react()), nil
}

// ListSingle marks one listing for sale at an explicit per-unit price, with no
// bundle membership.
func (e *Engine) ListSingle(id domain.ListingID, price string) (domain.MarketView, error) {
	p, err := parseNonNegativeFloat(price)
	if err != nil {
		return domain.MarketView{}, fmt.Errorf("engine: list single price: %w", domain.ErrInvalidListing)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.findListing(id)
	if i < 0 {
		return domain.MarketView{}, fmt.Errorf("engine: list single %d: %w", id, domain.ErrNotFound)
	}

	e.listings[i].ForSale = true
	e.listings[i].Price = p
	e.listings[i].BundleID = nil

	e.logger.Info("listing for sale",
		slog.Int64("listing_id", int64(id)),
		slog.Float64("price", p),
	)
	e.emit(domain.Event{Type: domain.EventListingUpdated, Timestamp: e.now()})

	return e.finish(e.react()), nil
}

// ListBundle marks a set of listings for sale under a fresh shared bundle id,
// dividing totalPrice evenly across the members. The operation is total: if
// any id is unknown or already for sale, nothing is mutated.
func (e *Engine) ListBundle(ids []domain.ListingID, totalPrice string) (domain.MarketView, error) {
	total, err := parseNonNegativeFloat(totalPrice)
	if err != nil {
		return domain.MarketView{}, fmt.Errorf("engine: list bundle price: %w", domain.ErrInvalidListing)
	}
	if len(ids) == 0 {
		return domain.MarketView{}, fmt.Errorf("engine: list bundle: empty member set: %w", domain.ErrInvalidListing)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idxs := make([]int, 0, len(ids))
	for _, id := range ids {
		i := e.findListing(id)
		if i < 0 {
			return domain.MarketView{}, fmt.Errorf("engine: list bundle member %d: %w", id, domain.ErrNotFound)
		}
		if e.listings[i].ForSale {
			return domain.MarketView{}, fmt.Errorf("engine: list bundle member %d: %w", id, domain.ErrAlreadyListed)
		}
		idxs = append(idxs, i)
	}

	bundleID := e.newBundle()
	perUnit := total / float64(len(ids))
	for _, i := range idxs {
		id := bundleID
		e.listings[i].ForSale = true
		e.listings[i].BundleID = &id
		e.listings[i].Price = perUnit
	}

	e.logger.Info("bundle for sale",
		slog.String("bundle_id", bundleID.String()),
		slog.Int("members", len(ids)),
		slog.Float64("total_price", total),
	)
	e.emit(domain.Event{Type: domain.EventListingUpdated, Timestamp: e.now()})

	return e.finish(e.react()), nil
}

// CancelListing takes a single listing off sale, clearing ForSale and
// BundleID together. If the listing was a bundle member, the remaining
// members stay on sale and the bundle view shrinks accordingly.
func (e *Engine) CancelListing(id domain.ListingID) (domain.MarketView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.findListing(id)
	if i < 0 {
		return domain.MarketView{}, fmt.Errorf("engine: cancel listing %d: %w", id, domain.ErrNotFound)
	}

	e.listings[i].ForSale = false
	e.listings[i].BundleID = nil

	e.logger.Info("sale cancelled", slog.Int64("listing_id", int64(id)))
	e.emit(domain.Event{Type: domain.EventListingUpdated, Timestamp: e.now()})

	return e.finish(e.react()), nil
}

// CancelBundle takes every listing sharing the given bundle id off sale,
// clearing ForSale and BundleID together for each member.
func (e *Engine) CancelBundle(id domain.BundleID) (domain.MarketView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cleared := 0
	for i := range e.listings {
		if e.listings[i].BundleID != nil && *e.listings[i].BundleID == id {
			e.listings[i].ForSale = false
			e.listings[i].BundleID = nil
			cleared++
		}
	}
	if cleared == 0 {
		return domain.MarketView{}, fmt.Errorf("engine: cancel bundle %s: %w", id, domain.ErrNotFound)
	}

	e.logger.Info("bundle cancelled",
		slog.String("bundle_id", id.String()),
		slog.Int("members", cleared),
	)
	e.emit(domain.Event{Type: domain.EventListingUpdated, Timestamp: e.now()})

	return e.finish(e.react()), nil
}
