// Package domain defines the core entities of the Atlas marketplace: validator
// listings, derived bundles, buy orders, executed transactions, and the port
// interfaces used by the outer layers.
package domain

import "github.com/google/uuid"

// ListingID identifies a single validator listing. IDs are small sequential
// integers assigned by the engine at creation time.
type ListingID int64

// BundleID identifies a group of listings offered for sale together. Bundle
// ids live in a separate identity space from listing ids; callers must state
// which kind of id they are cancelling.
type BundleID = uuid.UUID

// NewBundleID returns a fresh bundle identity.
func NewBundleID() BundleID {
	return uuid.New()
}

// PricePoint is one entry in a listing's price history.
type PricePoint struct {
	Date  string
	Price float64
}

// Listing is a tokenized validator position. The engine's listing store is the
// only owner of Listing records.
//
// Invariant: BundleID != nil implies ForSale == true. Clearing a sale always
// resets both fields together.
type Listing struct {
	ID             ListingID
	Name           string
	Price          float64 // ETH per unit; for bundle members, total/count
	Yield          float64 // percentage
	Address        string
	Description    string
	Owner          string
	Seller         string
	ForSale        bool
	BundleID       *BundleID
	Platform       string
	CommissionDate string
	History        []PricePoint
}

// InBundle reports whether the listing is currently part of a for-sale bundle.
func (l Listing) InBundle() bool {
	return l.BundleID != nil
}

// ListingDraft carries user-supplied fields for a new listing. Numeric fields
// arrive as strings from the form boundary and are validated before any
// mutation takes place.
type ListingDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Yield       string `json:"yield"`
	Owner       string `json:"owner"`
}
