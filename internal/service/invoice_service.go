package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/repository"
)

// InvoiceService generates invoices for paid orders. Generation is
// idempotent: a second request for the same order is a no-op, so the outbox
// may safely redeliver.
type InvoiceService struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewInvoiceService(pool *pgxpool.Pool, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{pool: pool, logger: logger}
}

func (s *InvoiceService) Generate(ctx context.Context, orderID uuid.UUID) error {
	invoice := domain.Invoice{
		ID:       uuid.New(),
		OrderID:  orderID,
		Number:   invoiceNumber(orderID),
		IssuedAt: time.Now().UTC(),
	}

	created, err := repository.NewInvoice(s.pool).CreateIfAbsent(ctx, invoice)
	if err != nil {
		return fmt.Errorf("invoices.CreateIfAbsent: %w", err)
	}

	if created {
		s.logger.Info("invoice generated", "order_id", orderID, "number", invoice.Number)
	} else {
		s.logger.Info("invoice already exists", "order_id", orderID)
	}

	return nil
}

func invoiceNumber(orderID uuid.UUID) string {
	compact := strings.ReplaceAll(orderID.String(), "-", "")
	return "INV-" + strings.ToUpper(compact[:12])
}
