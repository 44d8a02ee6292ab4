package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/printforge/commerce/internal/domain"
)

// CatalogRepository is a read-only view of products and materials; catalog
// management lives elsewhere.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (domain.Material, error)
}
