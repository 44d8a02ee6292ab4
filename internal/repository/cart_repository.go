package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	db DBTX
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{db: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.db.Query(ctx, `
		SELECT product_id, material_id, quantity, created_at
		FROM cart_items
		WHERE owner_id = $1
		ORDER BY created_at, product_id`, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.MaterialID, &item.Quantity, &item.CreatedAt); err != nil {
			return domain.Cart{}, fmt.Errorf("rows.Scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("rows.Err: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

func (r *cartRepository) GetCartDetailed(ctx context.Context, ownerID string) ([]domain.DetailedCartItem, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.db.Query(ctx, `
		SELECT ci.product_id, ci.material_id, ci.quantity, ci.created_at,
		       p.name, p.base_price, p.currency, p.active,
		       m.name, m.price, m.currency, m.active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN materials m ON m.id = ci.material_id
		WHERE ci.owner_id = $1
		ORDER BY ci.created_at, ci.product_id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.DetailedCartItem
	for rows.Next() {
		item, err := scanDetailedCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanDetailedCartItem: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_items (owner_id, product_id, material_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, product_id, material_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		ownerID, item.ProductID, item.MaterialID, item.Quantity)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID, materialID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	tag, err := r.db.Exec(ctx, `
		DELETE FROM cart_items
		WHERE owner_id = $1 AND product_id = $2 AND material_id = $3`,
		ownerID, productID, materialID)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func scanDetailedCartItem(rows pgx.Rows) (domain.DetailedCartItem, error) {
	var (
		item                              domain.DetailedCartItem
		basePrice, materialPrice          decimal.Decimal
		productCurrency, materialCurrency string
	)

	err := rows.Scan(
		&item.Item.ProductID, &item.Item.MaterialID, &item.Item.Quantity, &item.Item.CreatedAt,
		&item.Product.Name, &basePrice, &productCurrency, &item.Product.Active,
		&item.Material.Name, &materialPrice, &materialCurrency, &item.Material.Active,
	)
	if err != nil {
		return domain.DetailedCartItem{}, fmt.Errorf("rows.Scan: %w", err)
	}

	pUnit, err := currency.ParseISO(productCurrency)
	if err != nil {
		return domain.DetailedCartItem{}, fmt.Errorf("currency[%s] is not valid: %w", productCurrency, err)
	}
	mUnit, err := currency.ParseISO(materialCurrency)
	if err != nil {
		return domain.DetailedCartItem{}, fmt.Errorf("currency[%s] is not valid: %w", materialCurrency, err)
	}

	item.Product.ID = item.Item.ProductID
	item.Product.BasePrice = domain.Money{Amount: basePrice, Currency: pUnit}
	item.Material.ID = item.Item.MaterialID
	item.Material.Price = domain.Money{Amount: materialPrice, Currency: mUnit}

	return item, nil
}
