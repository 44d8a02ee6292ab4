package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/printforge/commerce/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	// GetForUser is an ownership-filtered read: it returns ErrNotFound for
	// orders belonging to someone else.
	GetForUser(ctx context.Context, id uuid.UUID, userID string) (domain.Order, error)
	GetByUserAndKey(ctx context.Context, userID, idempotencyKey string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}
