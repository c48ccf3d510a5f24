package email

import "fmt"

// BuildVerificationBody renders the email-verification message.
func BuildVerificationBody(token string) string {
	return fmt.Sprintf(`<html><body>
<p>Welcome to Storelane!</p>
<p>Confirm your email address by entering this token in the dashboard, or click the link below:</p>
<p><code>%s</code></p>
<p>This token expires in 24 hours.</p>
</body></html>`, token)
}

// BuildPasswordResetBody renders the password-reset message.
func BuildPasswordResetBody(token string) string {
	return fmt.Sprintf(`<html><body>
<p>A password reset was requested for your account.</p>
<p>Use this token to set a new password:</p>
<p><code>%s</code></p>
<p>This token expires in 1 hour. If you didn't request a reset, ignore this email.</p>
</body></html>`, token)
}

// BuildTwoFactorBody renders the two-factor login code message.
func BuildTwoFactorBody(code string) string {
	return fmt.Sprintf(`<html><body>
<p>Your login code is:</p>
<h2>%s</h2>
<p>This code expires in 10 minutes.</p>
</body></html>`, code)
}

// BuildInvitationBody renders the team invitation message.
func BuildInvitationBody(storeName, token string) string {
	return fmt.Sprintf(`<html><body>
<p>You've been invited to join the team of <strong>%s</strong>.</p>
<p>Accept the invitation with this token:</p>
<p><code>%s</code></p>
<p>This invitation expires in 7 days.</p>
</body></html>`, storeName, token)
}
