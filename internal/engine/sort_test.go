package engine

import (
	"errors"
	"testing"

	"github.com/teamfortytwo/atlas/internal/domain"
)

func listingIDs(ls []domain.Listing) []domain.ListingID {
	ids := make([]domain.ListingID, len(ls))
	for i, l := range ls {
		ids[i] = l.ID
	}
	return ids
}

func TestSortBy_YieldPriceRatio(t *testing.T) {
	e := newTestEngine()
	// id 1: 2.0/10 = 0.2, id 2: 3.0/10 = 0.3
	addListing(t, e, "A", "10", "2.0")
	addListing(t, e, "B", "10", "3.0")

	view, err := e.SortBy(domain.SortKeyYieldPrice)
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	got := listingIDs(view.Listings)
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("ascending yield/price order = %v, want [1 2]", got)
	}
	if view.SortKey != domain.SortKeyYieldPrice || view.Direction != domain.SortAscending {
		t.Errorf("view sort state = %s/%s, want yieldPrice/ascending", view.SortKey, view.Direction)
	}
}

func TestSortBy_RepeatedKeyTogglesDirection(t *testing.T) {
	e := newTestEngine()
	addListing(t, e, "A", "30", "2.0")
	addListing(t, e, "B", "10", "2.0")
	addListing(t, e, "C", "20", "2.0")

	view, err := e.SortBy(domain.SortKeyPrice)
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	if got := listingIDs(view.Listings); got[0] != 2 || got[1] != 3 || got[2] != 1 {
		t.Errorf("ascending price order = %v, want [2 3 1]", got)
	}

	view, err = e.SortBy(domain.SortKeyPrice)
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	if view.Direction != domain.SortDescending {
		t.Errorf("direction after toggle = %s, want descending", view.Direction)
	}
	if got := listingIDs(view.Listings); got[0] != 1 || got[1] != 3 || got[2] != 2 {
		t.Errorf("descending price order = %v, want [1 3 2]", got)
	}

	// A different key resets to ascending.
	view, err = e.SortBy(domain.SortKeyYield)
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	if view.Direction != domain.SortAscending {
		t.Errorf("direction after key change = %s, want ascending", view.Direction)
	}
}

func TestSortBy_NameKeepsInsertionOrder(t *testing.T) {
	e := newTestEngine()
	addListing(t, e, "Zeta", "30", "2.0")
	addListing(t, e, "Alpha", "10", "2.0")

	// Name has no numeric value, so the stable sort is a no-op.
	view, err := e.SortBy(domain.SortKeyName)
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	if got := listingIDs(view.Listings); got[0] != 1 || got[1] != 2 {
		t.Errorf("order under name sort = %v, want insertion order [1 2]", got)
	}
}

func TestSortBy_StableOnEqualValues(t *testing.T) {
	e := newTestEngine()
	addListing(t, e, "A", "10", "2.0")
	addListing(t, e, "B", "10", "2.1")
	addListing(t, e, "C", "10", "2.2")

	view, err := e.SortBy(domain.SortKeyPrice)
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	if got := listingIDs(view.Listings); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("equal-price order = %v, want insertion order [1 2 3]", got)
	}
}

func TestSortBy_ZeroPriceNotComparable(t *testing.T) {
	e := newTestEngine()
	addListing(t, e, "Free", "0", "2.0")
	addListing(t, e, "B", "10", "3.0")
	addListing(t, e, "A", "10", "1.0")

	// The zero-price listing has no yield/price value and holds its
	// position; the comparable pair still sorts.
	view, err := e.SortBy(domain.SortKeyYieldPrice)
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	if got := listingIDs(view.Listings); got[0] != 1 {
		t.Errorf("order = %v, want zero-price listing first (untouched)", got)
	}
}

func TestSortBy_UnknownKey(t *testing.T) {
	e := newTestEngine()
	if _, err := e.SortBy(domain.SortKey("owner")); !errors.Is(err, domain.ErrInvalidListing) {
		t.Errorf("err = %v, want ErrInvalidListing", err)
	}
}

func TestSortBy_DoesNotAffectSellDerivation(t *testing.T) {
	e := newTestEngine()
	a := addListing(t, e, "B", "30", "2.0")
	b := addListing(t, e, "A", "10", "2.5")
	if _, err := e.ListSingle(a, "30"); err != nil {
		t.Fatalf("ListSingle(a): %v", err)
	}
	if _, err := e.ListSingle(b, "10"); err != nil {
		t.Fatalf("ListSingle(b): %v", err)
	}

	view, err := e.SortBy(domain.SortKeyPrice)
	if err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	// The sell book keeps listing order regardless of the table sort.
	if view.Sell[0].ListingID != a || view.Sell[1].ListingID != b {
		t.Errorf("sell order = %v,%v, want %v,%v", view.Sell[0].ListingID, view.Sell[1].ListingID, a, b)
	}
}
