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

type catalogRepository struct {
	db DBTX
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{db: pool}
}

func NewCatalogWithTx(tx pgx.Tx) port.CatalogRepository {
	return &catalogRepository{db: tx}
}

func (r *catalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var (
		product  domain.Product
		price    decimal.Decimal
		currCode string
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, name, base_price, currency, active
		FROM products
		WHERE id = $1`, id).
		Scan(&product.ID, &product.Name, &price, &currCode, &product.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	unit, err := currency.ParseISO(currCode)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}
	product.BasePrice = domain.Money{Amount: price, Currency: unit}

	return product, nil
}

func (r *catalogRepository) GetMaterial(ctx context.Context, id uuid.UUID) (domain.Material, error) {
	var (
		material domain.Material
		price    decimal.Decimal
		currCode string
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, name, price, currency, active
		FROM materials
		WHERE id = $1`, id).
		Scan(&material.ID, &material.Name, &price, &currCode, &material.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Material{}, fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Material{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	unit, err := currency.ParseISO(currCode)
	if err != nil {
		return domain.Material{}, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}
	material.Price = domain.Money{Amount: price, Currency: unit}

	return material, nil
}
