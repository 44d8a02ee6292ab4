package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusInitiated  PaymentStatus = "INITIATED"
	PaymentStatusAuthorized PaymentStatus = "AUTHORIZED"
	PaymentStatusCaptured   PaymentStatus = "CAPTURED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

// paymentTransitions encodes the monotonic payment lifecycle. Nothing ever
// moves backward; CAPTURED and FAILED are terminal.
var paymentTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentStatusInitiated: {
		PaymentStatusAuthorized: true,
		PaymentStatusCaptured:   true,
		PaymentStatusFailed:     true,
	},
	PaymentStatusAuthorized: {
		PaymentStatusCaptured: true,
		PaymentStatusFailed:   true,
	},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return paymentTransitions[s][next]
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCaptured || s == PaymentStatusFailed
}

func (s PaymentStatus) String() string {
	return string(s)
}

// GatewayEvent is a payment confirmation delivered by either trust channel.
type GatewayEvent string

const (
	GatewayEventAuthorized GatewayEvent = "payment.authorized"
	GatewayEventCaptured   GatewayEvent = "payment.captured"
	GatewayEventFailed     GatewayEvent = "payment.failed"
)

// TargetStatus maps a gateway event to the payment status it establishes.
func (e GatewayEvent) TargetStatus() (PaymentStatus, bool) {
	switch e {
	case GatewayEventAuthorized:
		return PaymentStatusAuthorized, true
	case GatewayEventCaptured:
		return PaymentStatusCaptured, true
	case GatewayEventFailed:
		return PaymentStatusFailed, true
	default:
		return "", false
	}
}

// Payment is the single payment record of an order (1:1, unique order_id).
type Payment struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	Amount           Money
	Gateway          string
	GatewayOrderID   string
	GatewayPaymentID *string
	Status           PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
