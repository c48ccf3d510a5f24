package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"

	"github.com/storelane/storelane-api/internal/config"
)

// Service handles email sending via SMTP. Sends are fire-and-forget from the
// caller's perspective: failures are logged, not surfaced to the end user.
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service from SMTP config.
func NewService(cfg *config.SMTPConfig) *Service {
	return &Service{host: cfg.Host, port: cfg.Port, from: cfg.From}
}

// SendVerification sends an email-verification link token.
func (s *Service) SendVerification(to, token string) {
	s.sendAsync(to, "Verify your email address", BuildVerificationBody(token))
}

// SendPasswordReset sends a password-reset link token.
func (s *Service) SendPasswordReset(to, token string) {
	s.sendAsync(to, "Reset your password", BuildPasswordResetBody(token))
}

// SendTwoFactorCode sends a short-lived login code.
func (s *Service) SendTwoFactorCode(to, code string) {
	s.sendAsync(to, "Your login code", BuildTwoFactorBody(code))
}

// SendInvitation sends a team invitation for a store.
func (s *Service) SendInvitation(to, storeName, token string) {
	s.sendAsync(to, fmt.Sprintf("You've been invited to %s", storeName), BuildInvitationBody(storeName, token))
}

func (s *Service) sendAsync(to, subject, body string) {
	go func() {
		if err := s.send(to, subject, body); err != nil {
			log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send email")
		}
	}()
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
