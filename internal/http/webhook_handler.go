package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/printforge/commerce/internal/domain"
)

const maxWebhookBody = 1 << 20 // 1MB

type WebhookHandler struct {
	service PaymentService
	timeout time.Duration
	logger  *slog.Logger
}

func NewWebhookHandler(service PaymentService, timeout time.Duration, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, timeout: timeout, logger: logger}
}

// POST /webhooks/payment
//
// No session auth: the X-Signature over the raw body is the entire trust
// boundary. Signature failures get 400; application-level failures are
// acknowledged with 200 so the gateway stops redelivering.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// The exact wire bytes are hashed; decoding and re-encoding the JSON
	// before verification would break the signature.
	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "unreadable body")
		return
	}

	signature := r.Header.Get("X-Signature")

	err = h.service.HandleWebhook(ctx, rawBody, signature, clientIP(r))
	switch {
	case errors.Is(err, domain.ErrSignatureInvalid):
		respondError(w, http.StatusBadRequest, "invalid_signature", "signature verification failed")
	case err != nil:
		h.logger.Error("webhook processing failed, acknowledging to stop retries", "error", err)
		respondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
	default:
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
