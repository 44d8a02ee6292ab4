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

type CartService interface {
	Get(ctx context.Context, ownerID string) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, productID, materialID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, ownerID string, productID, materialID uuid.UUID) (bool, error)
}

type CartHandler struct {
	service CartService
	timeout time.Duration
}

func NewCartHandler(service CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{service: service, timeout: timeout}
}

type CartItemDTO struct {
	ProductID  string `json:"product_id"`
	MaterialID string `json:"material_id"`
	Quantity   int    `json:"quantity"`
}

type CartResponseDTO struct {
	Items []CartItemDTO `json:"items"`
}

type AddCartItemRequestDTO struct {
	ProductID  string `json:"product_id"`
	MaterialID string `json:"material_id"`
	Quantity   int    `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.service.Get(ctx, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	items := make([]CartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemDTO{
			ProductID:  item.ProductID.String(),
			MaterialID: item.MaterialID.String(),
			Quantity:   item.Quantity,
		})
	}
	respondJSON(w, http.StatusOK, CartResponseDTO{Items: items})
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id must be a UUID")
		return
	}
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "material_id must be a UUID")
		return
	}

	if err := h.service.AddItem(ctx, userID, productID, materialID, req.Quantity); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// DELETE /api/v1/cart/items/{productID}/{materialID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "product id must be a UUID")
		return
	}
	materialID, err := uuid.Parse(chi.URLParam(r, "materialID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "material id must be a UUID")
		return
	}

	deleted, err := h.service.RemoveItem(ctx, userID, productID, materialID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
