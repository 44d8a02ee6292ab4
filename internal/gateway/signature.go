package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier validates the two independent payment confirmation channels. The
// client callback and the webhook each use their own secret, so compromise
// of one channel never authenticates the other.
type Verifier struct {
	clientSecret  []byte
	webhookSecret []byte
}

func NewVerifier(clientSecret, webhookSecret string) *Verifier {
	return &Verifier{
		clientSecret:  []byte(clientSecret),
		webhookSecret: []byte(webhookSecret),
	}
}

// VerifyClientCallback checks the signature the gateway hands to the client
// after payment: HMAC-SHA256(clientSecret, gatewayOrderID + "|" + gatewayPaymentID),
// hex encoded.
func (v *Verifier) VerifyClientCallback(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, v.clientSecret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhook checks the X-Signature over the exact raw request bytes.
// Hashing anything re-serialized instead of the wire bytes would not match.
func (v *Verifier) VerifyWebhook(rawBody []byte, signature string) bool {
	if len(rawBody) == 0 || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, v.webhookSecret)
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
