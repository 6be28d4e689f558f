package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// PriceService defines the node price lookup the handler requires.
type PriceService interface {
	NodePrice() (float64, bool)
	AsOf() time.Time
}

// PriceHandler serves the sampled node price.
type PriceHandler struct {
	prices PriceService
	logger *slog.Logger
}

// NewPriceHandler creates a PriceHandler with the given service and logger.
func NewPriceHandler(prices PriceService, logger *slog.Logger) *PriceHandler {
	return &PriceHandler{
		prices: prices,
		logger: logger,
	}
}

// nodePriceResponse reports the price or its absence; the price is omitted
// entirely while unknown rather than reported as zero.
type nodePriceResponse struct {
	Available bool     `json:"available"`
	Price     *float64 `json:"price,omitempty"`
	AsOf      string   `json:"as_of,omitempty"`
}

// GetNodePrice returns the current node price, or available=false while no
// upstream probe has succeeded yet.
// GET /api/price/node
func (h *PriceHandler) GetNodePrice(w http.ResponseWriter, r *http.Request) {
	price, known := h.prices.NodePrice()
	if !known {
		writeJSON(w, http.StatusOK, nodePriceResponse{Available: false})
		return
	}

	writeJSON(w, http.StatusOK, nodePriceResponse{
		Available: true,
		Price:     &price,
		AsOf:      h.prices.AsOf().UTC().Format(time.RFC3339),
	})
}
