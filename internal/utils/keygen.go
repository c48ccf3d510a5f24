package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken generates a random single-use token with the given prefix.
// Format: prefix_randomhex
func GenerateToken(prefix string) (string, error) {
	b := make([]byte, 32) // 64 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateVerificationToken generates an email verification token: sl_verify_xxx
func GenerateVerificationToken() (string, error) {
	return GenerateToken("sl_verify")
}

// GenerateResetToken generates a password reset token: sl_reset_xxx
func GenerateResetToken() (string, error) {
	return GenerateToken("sl_reset")
}

// GenerateInviteToken generates a team invitation token: sl_invite_xxx
func GenerateInviteToken() (string, error) {
	return GenerateToken("sl_invite")
}

// GenerateTwoFactorCode generates a short numeric code for two-factor login.
func GenerateTwoFactorCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return fmt.Sprintf("%06d", n%1000000), nil
}
