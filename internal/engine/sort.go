package engine

import (
	"fmt"
	"sort"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// SortBy selects the listing-table sort column. Selecting the key already in
// effect flips the direction; selecting a new key resets to ascending. The
// sort selection is view state held by the engine, mirrored into every
// returned MarketView.
func (e *Engine) SortBy(key domain.SortKey) (domain.MarketView, error) {
	switch key {
	case domain.SortKeyName, domain.SortKeyPrice, domain.SortKeyYield, domain.SortKeyYieldPrice:
	default:
		return domain.MarketView{}, fmt.Errorf("engine: sort key %q: %w", key, domain.ErrInvalidListing)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sortKey == key {
		if e.sortDir == domain.SortAscending {
			e.sortDir = domain.SortDescending
		} else {
			e.sortDir = domain.SortAscending
		}
	} else {
		e.sortKey = key
		e.sortDir = domain.SortAscending
	}

	return e.viewLocked(), nil
}

// sortedCopy returns the listings stably sorted under the given key and
// direction. Only numeric keys compare; non-numeric keys (name) compare as
// equal, so the stable sort keeps insertion order for them.
func sortedCopy(listings []domain.Listing, key domain.SortKey, dir domain.SortDirection) []domain.Listing {
	out := append([]domain.Listing(nil), listings...)
	if key == domain.SortKeyNone {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := sortValue(out[i], key)
		b, bok := sortValue(out[j], key)
		if !aok || !bok {
			return false
		}
		if dir == domain.SortDescending {
			return b < a
		}
		return a < b
	})

	return out
}

// sortValue extracts the numeric comparison value for a listing under the
// given key. The second return is false for keys with no numeric value.
func sortValue(l domain.Listing, key domain.SortKey) (float64, bool) {
	switch key {
	case domain.SortKeyPrice:
		return l.Price, true
	case domain.SortKeyYield:
		return l.Yield, true
	case domain.SortKeyYieldPrice:
		if l.Price == 0 {
			return 0, false
		}
		return l.Yield / l.Price, true
	default:
		return 0, false
	}
}
