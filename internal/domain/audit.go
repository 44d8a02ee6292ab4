package domain

import "time"

const (
	AuditActionCheckoutCompleted = "checkout.completed"
	AuditActionPaymentInitiated  = "payment.initiated"
	AuditActionPaymentReconciled = "payment.reconciled"
	AuditActionSignatureRejected = "signature.rejected"
)

// AuditEntry is an append-only record of a security-relevant transition.
type AuditEntry struct {
	Actor    string
	Action   string
	Entity   string
	EntityID string
	IP       string
	Metadata map[string]any

	CreatedAt time.Time
}
