package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/teamfortytwo/atlas/internal/domain"
)

// ListingService defines the listing operations the handler requires from the
// engine. It is declared locally so the handler package does not depend on
// the concrete engine type.
type ListingService interface {
	View() domain.MarketView
	SortBy(key domain.SortKey) (domain.MarketView, error)
	CreateListing(draft domain.ListingDraft) (domain.MarketView, error)
	ListSingle(id domain.ListingID, price string) (domain.MarketView, error)
	ListBundle(ids []domain.ListingID, totalPrice string) (domain.MarketView, error)
	CancelListing(id domain.ListingID) (domain.MarketView, error)
	CancelBundle(id domain.BundleID) (domain.MarketView, error)
}

// ListingHandler serves listing and bundle HTTP endpoints.
type ListingHandler struct {
	market ListingService
	logger *slog.Logger
}

// NewListingHandler creates a ListingHandler with the given service and logger.
func NewListingHandler(market ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		market: market,
		logger: logger,
	}
}

// ListListings returns the listing table, optionally re-sorting it first.
// Passing the sort key already in effect flips the direction.
// GET /api/listings?sort=price
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	if key := r.URL.Query().Get("sort"); key != "" {
		view, err := h.market.SortBy(domain.SortKey(key))
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown sort key")
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}
	writeJSON(w, http.StatusOK, h.market.View())
}

// CreateListing adds a new validator listing from a JSON draft.
// POST /api/listings
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var draft domain.ListingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	view, err := h.market.CreateListing(draft)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidListing) {
			writeError(w, http.StatusBadRequest, "invalid listing draft")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: create listing failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// listSingleRequest is the body of the single-listing sale endpoint.
type listSingleRequest struct {
	Price string `json:"price"`
}

// ListForSale puts one listing on the market at the given price.
// POST /api/listings/{id}/sale
func (h *ListingHandler) ListForSale(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(w, r)
	if !ok {
		return
	}

	var req listSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	view, err := h.market.ListSingle(id, req.Price)
	if err != nil {
		writeServiceError(w, r, h.logger, "list for sale", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// CancelSale takes one listing off the market.
// DELETE /api/listings/{id}/sale
func (h *ListingHandler) CancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(w, r)
	if !ok {
		return
	}

	view, err := h.market.CancelListing(id)
	if err != nil {
		writeServiceError(w, r, h.logger, "cancel sale", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// listBundleRequest is the body of the bundle sale endpoint.
type listBundleRequest struct {
	ListingIDs []int64 `json:"listing_ids"`
	TotalPrice string  `json:"total_price"`
}

// CreateBundle puts a set of listings on the market as one bundle.
// POST /api/bundles
func (h *ListingHandler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var req listBundleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ids := make([]domain.ListingID, len(req.ListingIDs))
	for i, id := range req.ListingIDs {
		ids[i] = domain.ListingID(id)
	}

	view, err := h.market.ListBundle(ids, req.TotalPrice)
	if err != nil {
		writeServiceError(w, r, h.logger, "create bundle", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// CancelBundle takes every listing in a bundle off the market.
// DELETE /api/bundles/{id}
func (h *ListingHandler) CancelBundle(w http.ResponseWriter, r *http.Request) {
	raw := pathParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}

	view, err := h.market.CancelBundle(id)
	if err != nil {
		writeServiceError(w, r, h.logger, "cancel bundle", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// listingID parses the {id} path parameter, writing a 400 on failure.
func listingID(w http.ResponseWriter, r *http.Request) (domain.ListingID, bool) {
	raw := pathParam(r, "id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing id")
		return 0, false
	}
	return domain.ListingID(n), true
}

// writeServiceError maps engine errors onto HTTP statuses, hiding internal
// detail behind a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidListing), errors.Is(err, domain.ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, domain.ErrAlreadyListed):
		writeError(w, http.StatusConflict, "listing already for sale")
	default:
		logger.ErrorContext(r.Context(), "handler: "+op+" failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
