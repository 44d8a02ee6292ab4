package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/printforge/commerce/internal/domain"
)

type CheckoutService interface {
	Checkout(ctx context.Context, userID, idempotencyKey, ip string) (domain.Order, bool, error)
	GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (domain.Order, error)
}

type CheckoutHandler struct {
	service CheckoutService
	timeout time.Duration
}

func NewCheckoutHandler(service CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{service: service, timeout: timeout}
}

type CheckoutRequestDTO struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type OrderItemDTO struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	BasePrice     string `json:"base_price"`
	MaterialID    string `json:"material_id"`
	MaterialName  string `json:"material_name"`
	MaterialPrice string `json:"material_price"`
	Quantity      int    `json:"quantity"`
	ItemPrice     string `json:"item_price"`
	LineTotal     string `json:"line_total"`
}

type OrderResponseDTO struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Subtotal  string         `json:"subtotal"`
	Total     string         `json:"total"`
	Currency  string         `json:"currency"`
	Items     []OrderItemDTO `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
}

// POST /api/v1/orders/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key == "" && r.Body != nil {
		var req CheckoutRequestDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			key = req.IdempotencyKey
		}
	}
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing_idempotency_key", "Idempotency-Key header is required")
		return
	}

	order, created, err := h.service.Checkout(ctx, userID, key, clientIP(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, mapOrderToDTO(order))
}

func mapOrderToDTO(order domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID:     item.ProductID.String(),
			ProductName:   item.ProductName,
			BasePrice:     item.BasePrice.StringFixed(2),
			MaterialID:    item.MaterialID.String(),
			MaterialName:  item.MaterialName,
			MaterialPrice: item.MaterialPrice.StringFixed(2),
			Quantity:      item.Quantity,
			ItemPrice:     item.ItemPrice.StringFixed(2),
			LineTotal:     item.LineTotal.StringFixed(2),
		})
	}

	return OrderResponseDTO{
		ID:        order.ID.String(),
		Status:    order.Status.String(),
		Subtotal:  order.Subtotal.Amount.StringFixed(2),
		Total:     order.Total.Amount.StringFixed(2),
		Currency:  order.Total.Currency.String(),
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}
