package port

import (
	"context"

	"github.com/printforge/commerce/internal/domain"
)

type AddressRepository interface {
	// DefaultForUser returns the user's default shipping address, falling
	// back to the most recent one. ErrNotFound when the user has none.
	DefaultForUser(ctx context.Context, userID string) (domain.AddressSnapshot, error)
}
