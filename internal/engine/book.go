package engine

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// SubmitBuyOrder validates a draft and appends the resulting order to the buy
// book. The book never stores a partially-numeric order: any malformed or
// negative field rejects the whole draft before mutation.
func (e *Engine) SubmitBuyOrder(draft domain.BuyOrderDraft) (domain.MarketView, error) {
	order, err := parseBuyOrder(draft)
	if err != nil {
		return domain.MarketView{}, err
	}
	if order.Address == "" {
		return domain.MarketView{}, fmt.Errorf("engine: order address empty: %w", domain.ErrInvalidOrder)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order.ID = e.nextOrderID
	e.nextOrderID++
	order.CreatedAt = e.now()
	e.buy = append(e.buy, order)

	e.logger.Info("buy order submitted",
		slog.Int64("order_id", int64(order.ID)),
		slog.Float64("price", order.Price),
		slog.Float64("min_yield", order.MinYield),
	)

	return e.finish(e.react()), nil
}

// EditBuyOrder replaces the numeric fields of an existing order in place,
// keeping its id, address, creation time, and position in the book. The draft
// is fully validated first; a bad draft leaves the order untouched.
func (e *Engine) EditBuyOrder(id domain.OrderID, draft domain.BuyOrderDraft) (domain.MarketView, error) {
	updated, err := parseBuyOrder(draft)
	if err != nil {
		return domain.MarketView{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.buy {
		if e.buy[i].ID != id {
			continue
		}
		e.buy[i].Price = updated.Price
		e.buy[i].Amount = updated.Amount
		e.buy[i].Total = updated.Total
		e.buy[i].MinYield = updated.MinYield
		if updated.Address != "" {
			e.buy[i].Address = updated.Address
		}

		e.logger.Info("buy order updated", slog.Int64("order_id", int64(id)))
		return e.finish(e.react()), nil
	}

	return domain.MarketView{}, fmt.Errorf("engine: edit order %d: %w", id, domain.ErrNotFound)
}

// DeleteBuyOrder removes an open order from the book.
func (e *Engine) DeleteBuyOrder(id domain.OrderID) (domain.MarketView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.buy {
		if e.buy[i].ID == id {
			e.buy = append(e.buy[:i], e.buy[i+1:]...)
			e.logger.Info("buy order deleted", slog.Int64("order_id", int64(id)))
			return e.finish(e.react()), nil
		}
	}

	return domain.MarketView{}, fmt.Errorf("engine: delete order %d: %w", id, domain.ErrNotFound)
}

// removeBuy drops the order with the given id from the book. Must be called
// with the mutex held.
func (e *Engine) removeBuy(id domain.OrderID) {
	for i := range e.buy {
		if e.buy[i].ID == id {
			e.buy = append(e.buy[:i], e.buy[i+1:]...)
			return
		}
	}
}

// parseBuyOrder converts a draft into a BuyOrder, rejecting anything that is
// not a well-formed non-negative number.
func parseBuyOrder(draft domain.BuyOrderDraft) (domain.BuyOrder, error) {
	price, err := parseNonNegativeFloat(draft.Price)
	if err != nil {
		return domain.BuyOrder{}, fmt.Errorf("engine: order price %q: %w", draft.Price, domain.ErrInvalidOrder)
	}
	amount, err := parseNonNegativeInt(draft.Amount)
	if err != nil {
		return domain.BuyOrder{}, fmt.Errorf("engine: order amount %q: %w", draft.Amount, domain.ErrInvalidOrder)
	}
	minYield, err := parseNonNegativeFloat(draft.MinYield)
	if err != nil {
		return domain.BuyOrder{}, fmt.Errorf("engine: order min_yield %q: %w", draft.MinYield, domain.ErrInvalidOrder)
	}

	return domain.BuyOrder{
		Price:    price,
		Amount:   amount,
		Total:    price * float64(amount),
		MinYield: minYield,
		Address:  strings.TrimSpace(draft.Address),
	}, nil
}

// parseNonNegativeFloat parses a finite, non-negative decimal.
func parseNonNegativeFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("value %q out of range", s)
	}
	return f, nil
}

// parseNonNegativeInt parses a non-negative integer.
func parseNonNegativeInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("value %q negative", s)
	}
	return n, nil
}
