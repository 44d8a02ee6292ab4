package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/printforge/commerce/internal/domain"
)

type PaymentRepository interface {
	Insert(ctx context.Context, payment domain.Payment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (domain.Payment, error)
	// GetForUser joins the owning order for an ownership-filtered read.
	GetForUser(ctx context.Context, orderID uuid.UUID, userID string) (domain.Payment, error)
	// LockByGatewayOrderID acquires the row lock; reconciliation re-checks
	// status on the locked row so racing channels serialize.
	LockByGatewayOrderID(ctx context.Context, gatewayOrderID string) (domain.Payment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gatewayPaymentID *string) error
}
