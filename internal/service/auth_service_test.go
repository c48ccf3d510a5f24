package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/utils"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserStore) MarkEmailVerified(_ context.Context, id string) error { return nil }

func (f *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error { return nil }

func newTestAuthService(users UserStore) *AuthService {
	jwt := utils.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(users, nil, nil, nil, jwt, zerolog.Nop())
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(&fakeUserStore{byEmail: make(map[string]*models.User)})

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Password: "password123", Name: "Ada"}},
		{"malformed email", RegisterInput{Email: "not-an-email", Password: "password123", Name: "Ada"}},
		{"short password", RegisterInput{Email: "a@b.co", Password: "short", Name: "Ada"}},
		{"missing name", RegisterInput{Email: "a@b.co", Password: "password123", Name: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tt.input)
			assert.ErrorIs(t, err, utils.ErrValidation)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	users := &fakeUserStore{byEmail: map[string]*models.User{
		"ada@example.com": {ID: "user-1", Email: "ada@example.com", PasswordHash: string(hash)},
	}}
	svc := newTestAuthService(users)

	_, err = svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)

	_, err = svc.Login(context.Background(), "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}

func TestLoginIssuesSession(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	users := &fakeUserStore{byEmail: map[string]*models.User{
		"ada@example.com": {ID: "user-1", Email: "ada@example.com", PasswordHash: string(hash)},
	}}
	svc := newTestAuthService(users)

	// Email matching is case-insensitive and ignores padding.
	result, err := svc.Login(context.Background(), "  Ada@Example.com ", "correct-horse")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.TwoFactorRequired)
	assert.Equal(t, "user-1", result.User.ID)
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	svc := newTestAuthService(&fakeUserStore{byEmail: make(map[string]*models.User)})

	err := svc.ResetPassword(context.Background(), "some-token", "short")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestInviteRejectsBadEmail(t *testing.T) {
	svc := newTestAuthService(&fakeUserStore{byEmail: make(map[string]*models.User)})

	err := svc.Invite(context.Background(), "store-1", "not-an-email")
	assert.ErrorIs(t, err, utils.ErrValidation)
}
