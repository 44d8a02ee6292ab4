package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation         = errors.New("invalid request")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrNotFound           = errors.New("not found")
	ErrSignatureInvalid   = errors.New("signature verification failed")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrUnknownPayment     = errors.New("payment is not known")
	ErrIllegalTransition  = errors.New("illegal status transition")
)

// InactiveItemError reports a cart item whose product or material has been
// deactivated since it was added. Deactivation blocks new checkouts only;
// past orders keep their snapshots.
type InactiveItemError struct {
	Kind string // "product" or "material"
	ID   uuid.UUID
	Name string
}

func (e *InactiveItemError) Error() string {
	return fmt.Sprintf("%s %q (%s) is no longer available", e.Kind, e.Name, e.ID)
}
