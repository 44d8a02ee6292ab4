package domain

import "time"

const (
	TopicInvoiceRequested = "invoice.requested"
	TopicNotification     = "notification"
)

const (
	NotificationOrderPaid     = "order.paid"
	NotificationPaymentFailed = "payment.failed"
)

// OutboxMessage is a pending side effect recorded in the same transaction as
// the state change that requested it, delivered asynchronously by the poller.
type OutboxMessage struct {
	ID      int64
	Topic   string
	Payload []byte

	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// InvoiceRequested is the payload of a TopicInvoiceRequested message.
type InvoiceRequested struct {
	OrderID string `json:"order_id"`
}

// Notification is the payload of a TopicNotification message.
type Notification struct {
	Event   string `json:"event"`
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}
