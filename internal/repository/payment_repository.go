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
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type paymentRepository struct {
	db DBTX
}

func NewPayment(pool *pgxpool.Pool) port.PaymentRepository {
	return &paymentRepository{db: pool}
}

func NewPaymentWithTx(tx pgx.Tx) port.PaymentRepository {
	return &paymentRepository{db: tx}
}

const paymentColumns = `id, order_id, amount, currency, gateway, gateway_order_id, gateway_payment_id, status, created_at, updated_at`

func (r *paymentRepository) Insert(ctx context.Context, payment domain.Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, order_id, amount, currency, gateway, gateway_order_id, gateway_payment_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		payment.ID, payment.OrderID, payment.Amount.Amount, payment.Amount.Currency.String(),
		payment.Gateway, payment.GatewayOrderID, payment.GatewayPaymentID,
		payment.Status.String(), payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
	return scanPayment(row)
}

func (r *paymentRepository) GetForUser(ctx context.Context, orderID uuid.UUID, userID string) (domain.Payment, error) {
	if userID == "" {
		return domain.Payment{}, fmt.Errorf("userID is empty")
	}

	row := r.db.QueryRow(ctx, `
		SELECT p.id, p.order_id, p.amount, p.currency, p.gateway, p.gateway_order_id,
		       p.gateway_payment_id, p.status, p.created_at, p.updated_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE p.order_id = $1 AND o.user_id = $2`, orderID, userID)
	return scanPayment(row)
}

func (r *paymentRepository) LockByGatewayOrderID(ctx context.Context, gatewayOrderID string) (domain.Payment, error) {
	if gatewayOrderID == "" {
		return domain.Payment{}, fmt.Errorf("gatewayOrderID is empty")
	}

	row := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE gateway_order_id = $1
		FOR UPDATE`, gatewayOrderID)
	return scanPayment(row)
}

func (r *paymentRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, gatewayPaymentID *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status = $2,
		    gateway_payment_id = COALESCE($3, gateway_payment_id),
		    updated_at = NOW()
		WHERE id = $1`, id, status.String(), gatewayPaymentID)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var (
		payment  domain.Payment
		amount   decimal.Decimal
		currCode string
		status   string
	)

	err := row.Scan(&payment.ID, &payment.OrderID, &amount, &currCode, &payment.Gateway,
		&payment.GatewayOrderID, &payment.GatewayPaymentID, &status,
		&payment.CreatedAt, &payment.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, fmt.Errorf("payment: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Payment{}, fmt.Errorf("row.Scan: %w", err)
	}

	unit, err := currency.ParseISO(currCode)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}

	payment.Amount = domain.Money{Amount: amount, Currency: unit}
	payment.Status = domain.PaymentStatus(status)

	return payment, nil
}
