package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"event":"charge.success"}`)
	secret := "sk_test_secret"

	sig := GenerateSignature(payload, secret)
	assert.Len(t, sig, 128) // hex-encoded SHA-512

	assert.True(t, VerifySignature(payload, sig, secret))
	assert.False(t, VerifySignature(payload, sig, "other_secret"))
	assert.False(t, VerifySignature([]byte(`{"event":"tampered"}`), sig, secret))
	assert.False(t, VerifySignature(payload, "deadbeef", secret))
	assert.False(t, VerifySignature(payload, "", secret))
}
