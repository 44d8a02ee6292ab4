package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/repository"
)

// CartService owns the cart until the instant of checkout.
type CartService struct {
	pool *pgxpool.Pool
}

func NewCartService(pool *pgxpool.Pool) *CartService {
	return &CartService{pool: pool}
}

func (s *CartService) Get(ctx context.Context, ownerID string) (domain.Cart, error) {
	return repository.NewCart(s.pool).GetCart(ctx, ownerID)
}

// AddItem validates the product and material against the catalog before
// adding: inactive catalog rows cannot enter a cart.
func (s *CartService) AddItem(ctx context.Context, ownerID string, productID, materialID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}

	catalog := repository.NewCatalog(s.pool)

	product, err := catalog.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("catalog.GetProduct: %w", err)
	}
	if !product.Active {
		return &domain.InactiveItemError{Kind: "product", ID: product.ID, Name: product.Name}
	}

	material, err := catalog.GetMaterial(ctx, materialID)
	if err != nil {
		return fmt.Errorf("catalog.GetMaterial: %w", err)
	}
	if !material.Active {
		return &domain.InactiveItemError{Kind: "material", ID: material.ID, Name: material.Name}
	}

	return repository.NewCart(s.pool).AddItem(ctx, ownerID, domain.CartItem{
		ProductID:  productID,
		MaterialID: materialID,
		Quantity:   quantity,
	})
}

func (s *CartService) RemoveItem(ctx context.Context, ownerID string, productID, materialID uuid.UUID) (bool, error) {
	return repository.NewCart(s.pool).DeleteItem(ctx, ownerID, productID, materialID)
}
