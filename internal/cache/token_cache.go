package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenKind namespaces single-use tokens in Redis.
type TokenKind string

const (
	TokenEmailVerify   TokenKind = "verify"
	TokenPasswordReset TokenKind = "reset"
	TokenTwoFactor     TokenKind = "2fa"
	TokenInvite        TokenKind = "invite"
)

// ErrTokenNotFound indicates a missing, expired, or already-consumed token.
var ErrTokenNotFound = errors.New("token not found or expired")

// TokenCache stores single-use expiring tokens (email verification, password
// reset, two-factor codes, team invitations). A token maps to an opaque
// subject string, typically a user id or "storeID:email" for invitations.
type TokenCache struct {
	redis *RedisClient
}

// NewTokenCache creates a TokenCache backed by the given Redis client.
func NewTokenCache(redis *RedisClient) *TokenCache {
	return &TokenCache{redis: redis}
}

func tokenKey(kind TokenKind, token string) string {
	return fmt.Sprintf("token:%s:%s", kind, token)
}

// Put stores a token with the given TTL.
func (c *TokenCache) Put(ctx context.Context, kind TokenKind, token, subject string, ttl time.Duration) error {
	return c.redis.Set(ctx, tokenKey(kind, token), subject, ttl)
}

// Consume retrieves and deletes a token atomically, enforcing single use.
func (c *TokenCache) Consume(ctx context.Context, kind TokenKind, token string) (string, error) {
	subject, err := c.redis.GetDel(ctx, tokenKey(kind, token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	return subject, nil
}

// Peek retrieves a token without consuming it. Used by two-factor resends.
func (c *TokenCache) Peek(ctx context.Context, kind TokenKind, token string) (string, error) {
	subject, err := c.redis.Get(ctx, tokenKey(kind, token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	return subject, nil
}
