package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/printforge/commerce/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondDomainError maps the error taxonomy to HTTP statuses. Internal
// details never leak to the caller.
func respondDomainError(w http.ResponseWriter, err error) {
	var inactive *domain.InactiveItemError

	switch {
	case errors.As(err, &inactive):
		respondError(w, http.StatusBadRequest, "inactive_item", inactive.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request")
	case errors.Is(err, domain.ErrSignatureInvalid):
		respondError(w, http.StatusBadRequest, "invalid_signature", "signature verification failed")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrGatewayUnavailable):
		respondError(w, http.StatusBadGateway, "gateway_unavailable", "payment gateway unavailable, retry later")
	default:
		slog.Error("internal error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
