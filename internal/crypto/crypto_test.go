package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	e, err := NewEncryptor("master-secret")
	require.NoError(t, err)

	secrets := []string{"sk_live_abc123", "", "a", "a longer secret key with spaces and symbols !@#"}
	for _, secret := range secrets {
		enc, err := e.Encrypt("store-1", secret)
		require.NoError(t, err)

		dec, err := e.Decrypt("store-1", enc)
		require.NoError(t, err)
		assert.Equal(t, secret, dec)
	}
}

func TestEncryptProducesFreshIV(t *testing.T) {
	e, err := NewEncryptor("master-secret")
	require.NoError(t, err)

	a, err := e.Encrypt("store-1", "sk_live_abc123")
	require.NoError(t, err)
	b, err := e.Encrypt("store-1", "sk_live_abc123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestKeysAreStoreScoped(t *testing.T) {
	e, err := NewEncryptor("master-secret")
	require.NoError(t, err)

	enc, err := e.Encrypt("store-1", "sk_live_abc123")
	require.NoError(t, err)

	// A foreign store key must never recover the plaintext. Depending on how
	// the garbage decrypt ends, unpadding either fails or yields junk.
	dec, err := e.Decrypt("store-2", enc)
	if err == nil {
		assert.NotEqual(t, "sk_live_abc123", dec)
	}
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	e, err := NewEncryptor("master-secret")
	require.NoError(t, err)

	for _, input := range []string{"", "not-hex", "deadbeef", "00"} {
		_, err := e.Decrypt("store-1", input)
		assert.ErrorIs(t, err, ErrInvalidCiphertext, "input %q", input)
	}
}

func TestNewEncryptorRequiresKey(t *testing.T) {
	_, err := NewEncryptor("")
	assert.Error(t, err)
}
