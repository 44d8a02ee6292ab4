package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/printforge/commerce/internal/domain"
)

type InvoiceRepository interface {
	// CreateIfAbsent inserts the invoice unless one already exists for the
	// order; returns whether a row was written.
	CreateIfAbsent(ctx context.Context, invoice domain.Invoice) (bool, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (domain.Invoice, error)
}

// InvoiceGenerator is the idempotent invoice side effect invoked by the
// outbox poller.
type InvoiceGenerator interface {
	Generate(ctx context.Context, orderID uuid.UUID) error
}
