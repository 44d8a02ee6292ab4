package port

import (
	"context"

	"github.com/printforge/commerce/internal/domain"
)

// PaymentGateway opens payment intents on the external provider. The amount
// always comes from the stored order row, never from a client request.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, receipt string, amount domain.Money) (string, error)
}

// SignatureVerifier validates the two independent confirmation channels,
// each with its own secret.
type SignatureVerifier interface {
	VerifyClientCallback(gatewayOrderID, gatewayPaymentID, signature string) bool
	VerifyWebhook(rawBody []byte, signature string) bool
}

// Notifier publishes fire-and-forget notification events.
type Notifier interface {
	Publish(ctx context.Context, key string, payload []byte) error
}
