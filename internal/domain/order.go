package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated        OrderStatus = "CREATED"
	OrderStatusPaymentPending OrderStatus = "PAYMENT_PENDING"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusPaymentFailed  OrderStatus = "PAYMENT_FAILED"
)

// orderTransitions is the single source of truth for legal order status
// changes. A capture may be observed before the pending flip, so
// CREATED -> PAID is legal.
var orderTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusCreated: {
		OrderStatusPaymentPending: true,
		OrderStatusPaid:           true,
	},
	OrderStatusPaymentPending: {
		OrderStatusPaid:          true,
		OrderStatusPaymentFailed: true,
	},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return orderTransitions[s][next]
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusPaymentFailed
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// Order is immutable once created: its totals and line items are frozen at
// checkout time and never recomputed from live catalog data.
type Order struct {
	ID              uuid.UUID
	UserID          string
	IdempotencyKey  string
	Subtotal        Money
	Total           Money
	Status          OrderStatus
	ShippingAddress AddressSnapshot
	Items           []OrderItem

	CreatedAt time.Time
}

// OrderItem is a frozen price snapshot. ItemPrice = BasePrice + MaterialPrice,
// LineTotal = ItemPrice * Quantity; all in the order's currency.
type OrderItem struct {
	ProductID     uuid.UUID
	ProductName   string
	BasePrice     decimal.Decimal
	MaterialID    uuid.UUID
	MaterialName  string
	MaterialPrice decimal.Decimal
	Quantity      int
	ItemPrice     decimal.Decimal
	LineTotal     decimal.Decimal
}
