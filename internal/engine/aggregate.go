package engine

import "github.com/teamfortytwo/atlas/internal/domain"

// SellSide derives the sell-side order book from the listing set: every
// for-sale listing without a bundle id as a single entry, in listing order,
// followed by one synthetic entry per distinct bundle id in first-seen order.
//
// The derivation is pure and holds no state between calls; bundles are views,
// never records. A bundle with zero remaining for-sale members simply does
// not appear.
func SellSide(listings []domain.Listing) []domain.SellEntry {
	var out []domain.SellEntry
	var bundleOrder []domain.BundleID
	members := make(map[domain.BundleID][]domain.Listing)

	for _, l := range listings {
		if !l.ForSale {
			continue
		}
		if l.BundleID != nil {
			id := *l.BundleID
			if _, seen := members[id]; !seen {
				bundleOrder = append(bundleOrder, id)
			}
			members[id] = append(members[id], l)
			continue
		}
		out = append(out, domain.SellEntry{
			Kind:      domain.SellKindSingle,
			ListingID: l.ID,
			Price:     l.Price,
			Yield:     l.Yield,
			Seller:    l.Seller,
			Address:   l.Address,
			Listings:  []domain.Listing{l},
		})
	}

	for _, id := range bundleOrder {
		b := BundleView(id, members[id])
		bid := id
		out = append(out, domain.SellEntry{
			Kind:     domain.SellKindBundle,
			BundleID: &bid,
			Price:    b.Price,
			Yield:    b.Yield,
			Seller:   b.Listings[0].Seller,
			Address:  b.Listings[0].Address,
			Listings: b.Listings,
		})
	}

	return out
}

// BundleView computes the derived bundle over the given members: price is the
// exact sum of member prices (the cost to acquire the whole bundle), yield is
// the arithmetic mean of member yields.
func BundleView(id domain.BundleID, members []domain.Listing) domain.Bundle {
	b := domain.Bundle{ID: id, Listings: members}
	if len(members) == 0 {
		return b
	}
	var yieldSum float64
	for _, m := range members {
		b.Price += m.Price
		yieldSum += m.Yield
	}
	b.Yield = yieldSum / float64(len(members))
	return b
}
