package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// OrderService defines the order book operations the handler requires from
// the engine.
type OrderService interface {
	View() domain.MarketView
	SubmitBuyOrder(draft domain.BuyOrderDraft) (domain.MarketView, error)
	EditBuyOrder(id domain.OrderID, draft domain.BuyOrderDraft) (domain.MarketView, error)
	DeleteBuyOrder(id domain.OrderID) (domain.MarketView, error)
}

// OrderHandler serves order book HTTP endpoints.
type OrderHandler struct {
	orders OrderService
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler with the given service and logger.
func NewOrderHandler(orders OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// orderBookResponse carries both sides of the book.
type orderBookResponse struct {
	Buy  []domain.BuyOrder
	Sell []domain.SellEntry
}

// GetOrderBook returns the buy and sell sides of the order book.
// GET /api/orderbook
func (h *OrderHandler) GetOrderBook(w http.ResponseWriter, r *http.Request) {
	view := h.orders.View()
	writeJSON(w, http.StatusOK, orderBookResponse{
		Buy:  view.Buy,
		Sell: view.Sell,
	})
}

// SubmitOrder places a new buy order from a JSON draft. Field values arrive
// as strings and are validated by the engine.
// POST /api/orders
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var draft domain.BuyOrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	view, err := h.orders.SubmitBuyOrder(draft)
	if err != nil {
		writeServiceError(w, r, h.logger, "submit order", err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// EditOrder replaces the fields of an open order.
// PUT /api/orders/{id}
func (h *OrderHandler) EditOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var draft domain.BuyOrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	view, err := h.orders.EditBuyOrder(id, draft)
	if err != nil {
		writeServiceError(w, r, h.logger, "edit order", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// DeleteOrder removes an open order from the book.
// DELETE /api/orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	view, err := h.orders.DeleteBuyOrder(id)
	if err != nil {
		writeServiceError(w, r, h.logger, "delete order", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// orderID parses the {id} path parameter, writing a 400 on failure.
func orderID(w http.ResponseWriter, r *http.Request) (domain.OrderID, bool) {
	raw := pathParam(r, "id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return domain.OrderID(n), true
}
