package engine

import (
	"testing"

	"github.com/teamfortytwo/atlas/internal/domain"
)

func bundlePtr(id domain.BundleID) *domain.BundleID { return &id }

func TestSellSide_BundlePriceAndYield(t *testing.T) {
	id := domain.NewBundleID()
	listings := []domain.Listing{
		{ID: 1, Price: 10, Yield: 2.0, ForSale: true, BundleID: bundlePtr(id)},
		{ID: 2, Price: 20, Yield: 3.0, ForSale: true, BundleID: bundlePtr(id)},
	}

	entries := SellSide(listings)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Kind != domain.SellKindBundle {
		t.Fatalf("kind = %s, want bundle", e.Kind)
	}
	if e.Price != 30 {
		t.Errorf("price = %v, want sum 30", e.Price)
	}
	if e.Yield != 2.5 {
		t.Errorf("yield = %v, want mean 2.5", e.Yield)
	}
	if len(e.Listings) != 2 {
		t.Errorf("backing listings = %d, want 2", len(e.Listings))
	}
}

func TestSellSide_SinglesBeforeBundles(t *testing.T) {
	id := domain.NewBundleID()
	listings := []domain.Listing{
		{ID: 1, Price: 5, Yield: 2.0, ForSale: true, BundleID: bundlePtr(id)},
		{ID: 2, Price: 7, Yield: 2.1, ForSale: true},
		{ID: 3, Price: 9, Yield: 2.2, ForSale: true},
	}

	entries := SellSide(listings)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	// Singles appear first in listing order, bundles after.
	if entries[0].Kind != domain.SellKindSingle || entries[0].ListingID != 2 {
		t.Errorf("entries[0] = %+v, want single listing 2", entries[0])
	}
	if entries[1].Kind != domain.SellKindSingle || entries[1].ListingID != 3 {
		t.Errorf("entries[1] = %+v, want single listing 3", entries[1])
	}
	if entries[2].Kind != domain.SellKindBundle {
		t.Errorf("entries[2] = %+v, want bundle", entries[2])
	}
}

func TestSellSide_BundlesInFirstSeenOrder(t *testing.T) {
	b1 := domain.NewBundleID()
	b2 := domain.NewBundleID()
	listings := []domain.Listing{
		{ID: 1, Price: 5, ForSale: true, BundleID: bundlePtr(b2)},
		{ID: 2, Price: 7, ForSale: true, BundleID: bundlePtr(b1)},
		{ID: 3, Price: 9, ForSale: true, BundleID: bundlePtr(b2)},
	}

	entries := SellSide(listings)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if *entries[0].BundleID != b2 {
		t.Errorf("first bundle = %v, want the bundle seen first (%v)", *entries[0].BundleID, b2)
	}
	if entries[0].Price != 14 {
		t.Errorf("first bundle price = %v, want 14", entries[0].Price)
	}
	if *entries[1].BundleID != b1 {
		t.Errorf("second bundle = %v, want %v", *entries[1].BundleID, b1)
	}
}

func TestSellSide_SkipsNotForSale(t *testing.T) {
	id := domain.NewBundleID()
	listings := []domain.Listing{
		{ID: 1, Price: 5, ForSale: false},
		{ID: 2, Price: 7, ForSale: false, BundleID: nil},
		// A bundle id on a listing that is not for sale cannot occur
		// under the clearing invariant, but the derivation must not
		// depend on it either way.
		{ID: 3, Price: 9, ForSale: false, BundleID: bundlePtr(id)},
	}

	if entries := SellSide(listings); len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestBundleView_Empty(t *testing.T) {
	id := domain.NewBundleID()
	b := BundleView(id, nil)
	if b.Price != 0 || b.Yield != 0 {
		t.Errorf("empty bundle = %+v, want zero price and yield", b)
	}
}
