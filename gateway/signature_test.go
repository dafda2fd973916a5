package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	const secret = "key-secret"

	sig := SignPayload("order_abc", "pay_def", secret)

	assert.True(t, VerifySignature("order_abc", "pay_def", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_def", sig, "other-secret"))
	assert.False(t, VerifySignature("order_xyz", "pay_def", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_def", "", secret))
	assert.False(t, VerifySignature("order_abc", "pay_def", sig[:len(sig)-1], secret))
}

func TestSignPayloadIsDeterministic(t *testing.T) {
	a := SignPayload("order_abc", "pay_def", "key-secret")
	b := SignPayload("order_abc", "pay_def", "key-secret")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestSignPayloadSeparatesFields(t *testing.T) {
	// "ab|c" and "a|bc" must not collide through the joined payload.
	assert.NotEqual(t,
		SignPayload("order_ab", "c", "key-secret"),
		SignPayload("order_a", "bc", "key-secret"))
}
