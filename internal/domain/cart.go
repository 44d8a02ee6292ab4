package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

type CartItem struct {
	ProductID  uuid.UUID
	MaterialID uuid.UUID
	Quantity   int

	CreatedAt time.Time
}

// DetailedCartItem is a cart item joined with its current catalog rows,
// the read model the price snapshotter works on.
type DetailedCartItem struct {
	Item     CartItem
	Product  Product
	Material Material
}
