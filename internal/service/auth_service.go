package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelane/storelane-api/internal/cache"
	"github.com/storelane/storelane-api/internal/email"
	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour
	twoFactorTTL   = 10 * time.Minute
	inviteTokenTTL = 7 * 24 * time.Hour
)

// UserStore is the persistence surface for dashboard accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	MarkEmailVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// MembershipStore is the membership surface invitations need.
type MembershipStore interface {
	GetByID(ctx context.Context, id string) (*models.Store, error)
	AddMember(ctx context.Context, storeID, userID string, role models.MemberRole) error
}

// AuthService handles registration, login, email verification, password
// reset, optional two-factor login, and team invitations. Single-use tokens
// live in Redis and are consumed atomically, so replaying a link never works.
type AuthService struct {
	users  UserStore
	stores MembershipStore
	tokens *cache.TokenCache
	email  *email.Service
	jwt    *utils.JWTManager
	logger zerolog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, stores MembershipStore, tokens *cache.TokenCache,
	mailer *email.Service, jwt *utils.JWTManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		stores: stores,
		tokens: tokens,
		email:  mailer,
		jwt:    jwt,
		logger: logger.With().Str("component", "auth_service").Logger(),
	}
}

// RegisterInput carries a new account's fields.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register creates an account and emails a verification link. The account
// can log in immediately; verification gates nothing but is surfaced to the
// dashboard.
func (s *AuthService) Register(ctx context.Context, in *RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", utils.ErrValidation)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", utils.ErrValidation)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := utils.GenerateVerificationToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Put(ctx, cache.TokenEmailVerify, token, u.ID, verifyTokenTTL); err != nil {
		return nil, err
	}
	s.email.SendVerification(u.Email, token)
	return u, nil
}

// LoginResult is either a session token or, for two-factor accounts, a
// pending challenge the caller completes with the emailed code.
type LoginResult struct {
	Token             string       `json:"token,omitempty"`
	User              *models.User `json:"user,omitempty"`
	TwoFactorRequired bool         `json:"twoFactorRequired,omitempty"`
}

// Login verifies credentials. Two-factor accounts get an emailed code
// instead of a token; the code keys the challenge in Redis.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.ErrUnauthenticated
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, utils.ErrUnauthenticated
	}

	if u.TwoFactorEnabled {
		code, err := utils.GenerateTwoFactorCode()
		if err != nil {
			return nil, err
		}
		if err := s.tokens.Put(ctx, cache.TokenTwoFactor, code, u.ID, twoFactorTTL); err != nil {
			return nil, err
		}
		s.email.SendTwoFactorCode(u.Email, code)
		return &LoginResult{TwoFactorRequired: true}, nil
	}
	return s.issueSession(u)
}

// CompleteTwoFactor exchanges an emailed code for a session token. Codes are
// single-use.
func (s *AuthService) CompleteTwoFactor(ctx context.Context, code string) (*LoginResult, error) {
	userID, err := s.tokens.Consume(ctx, cache.TokenTwoFactor, code)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issueSession(u)
}

func (s *AuthService) issueSession(u *models.User) (*LoginResult, error) {
	token, err := s.jwt.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u}, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.Consume(ctx, cache.TokenEmailVerify, token)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return utils.ErrInvalidToken
		}
		return err
	}
	return s.users.MarkEmailVerified(ctx, userID)
}

// RequestPasswordReset emails a reset link. An unknown email is reported as
// success so the endpoint does not reveal which addresses have accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}
	if err := s.tokens.Put(ctx, cache.TokenPasswordReset, token, u.ID, resetTokenTTL); err != nil {
		return err
	}
	s.email.SendPasswordReset(u.Email, token)
	return nil
}

// ResetPassword consumes a reset token and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", utils.ErrValidation)
	}
	userID, err := s.tokens.Consume(ctx, cache.TokenPasswordReset, token)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return utils.ErrInvalidToken
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// Invite emails a store invitation. The token's subject carries the store id
// and invited email so acceptance can check both.
func (s *AuthService) Invite(ctx context.Context, storeID, inviteeEmail string) error {
	inviteeEmail = strings.ToLower(strings.TrimSpace(inviteeEmail))
	if inviteeEmail == "" || !strings.Contains(inviteeEmail, "@") {
		return fmt.Errorf("%w: a valid email is required", utils.ErrValidation)
	}

	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return err
	}
	subject := storeID + ":" + inviteeEmail
	if err := s.tokens.Put(ctx, cache.TokenInvite, token, subject, inviteTokenTTL); err != nil {
		return err
	}
	s.email.SendInvitation(inviteeEmail, store.Name, token)
	return nil
}

// AcceptInvite consumes an invitation token and adds the calling user to the
// store as a member. The caller's email must match the invited address.
func (s *AuthService) AcceptInvite(ctx context.Context, user *models.User, token string) (*models.Store, error) {
	subject, err := s.tokens.Consume(ctx, cache.TokenInvite, token)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}

	storeID, inviteeEmail, ok := strings.Cut(subject, ":")
	if !ok || !strings.EqualFold(inviteeEmail, user.Email) {
		return nil, utils.ErrInvalidToken
	}

	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.AddMember(ctx, storeID, user.ID, models.RoleMember); err != nil {
		return nil, err
	}
	s.logger.Info().Str("store_id", storeID).Str("user_id", user.ID).Msg("Invitation accepted")
	return store, nil
}
