package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/teamfortytwo/atlas/internal/domain"
	"github.com/teamfortytwo/atlas/internal/server/middleware"
)

// HistoryService defines the ledger operations the handler requires from the
// engine.
type HistoryService interface {
	History() []domain.Transaction
	ResetHistory() domain.MarketView
}

// HistoryHandler serves the transaction ledger endpoints. Reset is gated on
// the admin key and, when an archiver is configured, exports the history to
// blob storage before clearing it.
type HistoryHandler struct {
	history  HistoryService
	archiver domain.HistoryArchiver // optional
	adminKey string
	logger   *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler. archiver may be nil; adminKey
// empty disables the reset endpoint entirely.
func NewHistoryHandler(history HistoryService, archiver domain.HistoryArchiver, adminKey string, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history:  history,
		archiver: archiver,
		adminKey: adminKey,
		logger:   logger,
	}
}

// historyResponse wraps the ledger listing.
type historyResponse struct {
	Transactions []domain.Transaction
	Count        int
}

// GetHistory returns all executed transactions in execution order.
// GET /api/history
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	txs := h.history.History()
	if txs == nil {
		txs = []domain.Transaction{}
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Transactions: txs,
		Count:        len(txs),
	})
}

// ResetHistory clears the ledger. The caller must present the admin key; the
// regular API key does not qualify.
// DELETE /api/history
func (h *HistoryHandler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	if h.adminKey == "" {
		writeError(w, http.StatusForbidden, "history reset disabled")
		return
	}

	token := middleware.ExtractToken(r)
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.adminKey)) != 1 {
		writeError(w, http.StatusForbidden, "admin key required")
		return
	}

	if h.archiver != nil {
		key, err := h.archiver.ArchiveHistory(r.Context(), h.history.History())
		if err != nil {
			// Archive failure does not block the reset.
			h.logger.ErrorContext(r.Context(), "handler: history archive failed",
				slog.String("error", err.Error()),
			)
		} else if key != "" {
			h.logger.Info("history archived", slog.String("object_key", key))
		}
	}

	view := h.history.ResetHistory()
	h.logger.Info("history reset by operator")

	writeJSON(w, http.StatusOK, view)
}
