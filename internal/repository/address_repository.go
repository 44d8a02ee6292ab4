package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/printforge/commerce/internal/domain"
	"github.com/printforge/commerce/internal/port"
)

type addressRepository struct {
	db DBTX
}

func NewAddress(pool *pgxpool.Pool) port.AddressRepository {
	return &addressRepository{db: pool}
}

func NewAddressWithTx(tx pgx.Tx) port.AddressRepository {
	return &addressRepository{db: tx}
}

func (r *addressRepository) DefaultForUser(ctx context.Context, userID string) (domain.AddressSnapshot, error) {
	if userID == "" {
		return domain.AddressSnapshot{}, fmt.Errorf("userID is empty")
	}

	var snapshot domain.AddressSnapshot
	err := r.db.QueryRow(ctx, `
		SELECT full_name, line1, line2, city, postal_code, country
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
		LIMIT 1`, userID).
		Scan(&snapshot.FullName, &snapshot.Line1, &snapshot.Line2,
			&snapshot.City, &snapshot.PostalCode, &snapshot.Country)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AddressSnapshot{}, fmt.Errorf("address for user %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.AddressSnapshot{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	return snapshot, nil
}
