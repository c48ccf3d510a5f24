package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrInvalidCiphertext indicates a malformed or tampered ciphertext.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// Encryptor encrypts per-store payment credentials at rest using AES-256-CBC
// with a random IV per call. Keys are derived from the platform master secret
// scoped by store id, so a leaked store key does not expose other tenants.
//
// The Encryptor is constructed explicitly from configuration at startup and
// passed to the components that need it; there is no package-level state.
type Encryptor struct {
	masterKey []byte
}

// NewEncryptor creates an Encryptor from the platform master secret.
func NewEncryptor(masterKey string) (*Encryptor, error) {
	if masterKey == "" {
		return nil, errors.New("master key must not be empty")
	}
	return &Encryptor{masterKey: []byte(masterKey)}, nil
}

// deriveKey produces the 32-byte AES key for a store: HMAC-SHA256(master, storeID).
func (e *Encryptor) deriveKey(storeID string) []byte {
	mac := hmac.New(sha256.New, e.masterKey)
	mac.Write([]byte(storeID))
	return mac.Sum(nil)
}

// Encrypt encrypts plaintext for the given store. Output is hex(iv || ciphertext).
func (e *Encryptor) Encrypt(storeID, plaintext string) (string, error) {
	block, err := aes.NewCipher(e.deriveKey(storeID))
	if err != nil {
		return "", fmt.Errorf("cipher init failed: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("iv generation failed: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt for the given store.
func (e *Encryptor) Decrypt(storeID, encoded string) (string, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(e.deriveKey(storeID))
	if err != nil {
		return "", fmt.Errorf("cipher init failed: %w", err)
	}

	iv, ciphertext := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+padding)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padding)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidCiphertext
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, ErrInvalidCiphertext
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrInvalidCiphertext
		}
	}
	return data[:len(data)-padding], nil
}
