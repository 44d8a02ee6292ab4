package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/printforge/commerce/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	// GetCartDetailed joins cart items with their current product and
	// material rows; the checkout transaction prices against this view.
	GetCartDetailed(ctx context.Context, ownerID string) ([]domain.DetailedCartItem, error)
	AddItem(ctx context.Context, ownerID string, item domain.CartItem) error
	DeleteItem(ctx context.Context, ownerID string, productID, materialID uuid.UUID) (bool, error)
	ClearCart(ctx context.Context, ownerID string) error
}
