package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/printforge/commerce/internal/domain"
)

type PaymentService interface {
	Initiate(ctx context.Context, userID string, orderID uuid.UUID, ip string) (domain.Payment, error)
	Status(ctx context.Context, userID string, orderID uuid.UUID) (domain.Payment, error)
	VerifyClientCallback(ctx context.Context, userID, gatewayOrderID, gatewayPaymentID, signature, ip string) error
	HandleWebhook(ctx context.Context, rawBody []byte, signature, ip string) error
}

type PaymentHandler struct {
	service PaymentService
	keyID   string
	timeout time.Duration
}

func NewPaymentHandler(service PaymentService, keyID string, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{service: service, keyID: keyID, timeout: timeout}
}

type InitiateResponseDTO struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"` // minor units
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

type VerifyRequestDTO struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

type PaymentStatusDTO struct {
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
}

// POST /api/v1/payments/initiate/{orderID}
//
// The request carries no amount field: the charge amount always comes from
// the stored order row.
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	payment, err := h.service.Initiate(ctx, userID, orderID, clientIP(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, InitiateResponseDTO{
		GatewayOrderID: payment.GatewayOrderID,
		Amount:         payment.Amount.MinorUnits(),
		Currency:       payment.Amount.Currency.String(),
		KeyID:          h.keyID,
	})
}

// POST /api/v1/payments/verify
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req VerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		respondError(w, http.StatusBadRequest, "invalid_request",
			"gateway_order_id, gateway_payment_id and signature are required")
		return
	}

	err := h.service.VerifyClientCallback(ctx, userID, req.GatewayOrderID, req.GatewayPaymentID, req.Signature, clientIP(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/v1/payments/{orderID}
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	payment, err := h.service.Status(ctx, userID, orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	dto := PaymentStatusDTO{
		OrderID:        payment.OrderID.String(),
		Status:         payment.Status.String(),
		Amount:         payment.Amount.MinorUnits(),
		Currency:       payment.Amount.Currency.String(),
		GatewayOrderID: payment.GatewayOrderID,
	}
	if payment.GatewayPaymentID != nil {
		dto.GatewayPaymentID = *payment.GatewayPaymentID
	}
	respondJSON(w, http.StatusOK, dto)
}
