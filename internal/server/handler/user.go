package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/teamfortytwo/atlas/internal/domain"
)

// UserService defines the profile lookup the handler requires from the engine.
type UserService interface {
	User(username string) (domain.UserProfile, error)
}

// UserHandler serves seller profile lookups.
type UserHandler struct {
	users  UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler with the given service and logger.
func NewUserHandler(users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// GetUser returns one seller profile.
// GET /api/users/{username}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := pathParam(r, "username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "missing username")
		return
	}

	profile, err := h.users.User(username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get user failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
