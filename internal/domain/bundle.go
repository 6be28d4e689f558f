package domain

// Bundle is a derived view over the listings currently sharing a BundleID with
// ForSale set. Bundles are recomputed on every query and never stored, so they
// cannot drift from listing state.
type Bundle struct {
	ID       BundleID
	Price    float64 // sum of member prices
	Yield    float64 // arithmetic mean of member yields
	Listings []Listing
}

// SellKind distinguishes the two shapes of sell-side order book entries.
type SellKind string

const (
	SellKindSingle SellKind = "single"
	SellKindBundle SellKind = "bundle"
)

// SellEntry is one row of the derived sell side: either a single for-sale
// listing or a synthetic bundle entry. Entries are read-only derivations; they
// vanish the moment their backing listings change.
type SellEntry struct {
	Kind      SellKind
	ListingID ListingID // set when Kind == SellKindSingle
	BundleID  *BundleID // set when Kind == SellKindBundle
	Price     float64   // single: listing price; bundle: sum of member prices
	Yield     float64   // single: listing yield; bundle: mean of member yields
	Seller    string
	Address   string
	Listings  []Listing // the backing listing(s)
}
