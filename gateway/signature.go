package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks a provider callback signature: HMAC-SHA256 over
// "<providerOrderID>|<paymentID>" keyed with the shared secret, hex encoded.
// hmac.Equal keeps the comparison constant time.
func VerifySignature(providerOrderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignPayload produces the signature the provider would send for the given
// pair of ids. Used by tests and the sandbox tooling.
func SignPayload(providerOrderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
