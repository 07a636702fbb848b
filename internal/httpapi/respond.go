package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/marketplace/internal/repository"
	"github.com/nikolayk812/marketplace/internal/service"
)

// identity arrives from the external identity provider as a header;
// no identity logic lives in this module.
const userIDHeader = "X-User-ID"

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// User-correctable conditions keep their message; infrastructure failures
// collapse to 503.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateEntry):
		respondError(w, http.StatusConflict, "duplicate_entry", "item is already in your cart")
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
	case errors.Is(err, service.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", "checkout already in progress, retry shortly")
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, service.ErrOrderCreationFailed), errors.Is(err, service.ErrStorageUnavailable):
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "temporary failure, please retry")
	default:
		// unclassified errors are internal faults; their message stays in the logs
		slog.Error("unmapped service error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func userID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}
