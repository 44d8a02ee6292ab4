package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/port"
)

type invoiceRepository struct {
	db DBTX
}

func NewInvoice(pool *pgxpool.Pool) port.InvoiceRepository {
	return &invoiceRepository{db: pool}
}

func NewInvoiceWithTx(tx pgx.Tx) port.InvoiceRepository {
	return &invoiceRepository{db: tx}
}

func (r *invoiceRepository) CreateIfAbsent(ctx context.Context, invoice domain.Invoice) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO invoices (id, order_id, number, issued_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING`,
		invoice.ID, invoice.OrderID, invoice.Number, invoice.IssuedAt)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *invoiceRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, number, issued_at
		FROM invoices
		WHERE order_id = $1`, orderID).
		Scan(&invoice.ID, &invoice.OrderID, &invoice.Number, &invoice.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Invoice{}, fmt.Errorf("invoice for order %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	return invoice, nil
}
