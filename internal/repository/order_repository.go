package repository

import (
	"context"
	"encoding/json"
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

type orderRepository struct {
	db DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("json.Marshal address: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (id, user_id, idempotency_key, subtotal, total, currency, status, shipping_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.UserID, order.IdempotencyKey,
		order.Subtotal.Amount, order.Total.Amount, order.Total.Currency.String(),
		order.Status.String(), addressJSON, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = r.db.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, base_price,
			                         material_id, material_name, material_price,
			                         quantity, item_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			order.ID, item.ProductID, item.ProductName, item.BasePrice,
			item.MaterialID, item.MaterialName, item.MaterialPrice,
			item.Quantity, item.ItemPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *orderRepository) GetForUser(ctx context.Context, id uuid.UUID, userID string) (domain.Order, error) {
	if userID == "" {
		return domain.Order{}, fmt.Errorf("userID is empty")
	}

	return r.getOne(ctx, `WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *orderRepository) GetByUserAndKey(ctx context.Context, userID, idempotencyKey string) (domain.Order, error) {
	if userID == "" {
		return domain.Order{}, fmt.Errorf("userID is empty")
	}

	return r.getOne(ctx, `WHERE user_id = $1 AND idempotency_key = $2`, userID, idempotencyKey)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status.String())
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) getOne(ctx context.Context, where string, args ...any) (domain.Order, error) {
	var (
		order            domain.Order
		subtotal, total  decimal.Decimal
		currCode, status string
		addressJSON      []byte
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, idempotency_key, subtotal, total, currency, status, shipping_address, created_at
		FROM orders `+where, args...).
		Scan(&order.ID, &order.UserID, &order.IdempotencyKey, &subtotal, &total,
			&currCode, &status, &addressJSON, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	unit, err := currency.ParseISO(currCode)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}

	order.Subtotal = domain.Money{Amount: subtotal, Currency: unit}
	order.Total = domain.Money{Amount: total, Currency: unit}
	order.Status = domain.OrderStatus(status)

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return domain.Order{}, fmt.Errorf("json.Unmarshal address: %w", err)
	}

	order.Items, err = r.getItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("getItems: %w", err)
	}

	return order, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, product_name, base_price, material_id, material_name,
		       material_price, quantity, item_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ProductID, &item.ProductName, &item.BasePrice,
			&item.MaterialID, &item.MaterialName, &item.MaterialPrice,
			&item.Quantity, &item.ItemPrice, &item.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}
