package email

import "fmt"

// VerificationEmail builds the account verification message. The URL embeds
// the email and the raw verification token.
func VerificationEmail(verificationURL string) SendEmailParams {
	body := fmt.Sprintf(`
      <h2>Welcome to KindNet!</h2>
      <p>Please verify your email address by clicking the link below:</p>
      <a href="%s">Verify Email</a>
      <p>This link will expire in 24 hours.</p>
    `, verificationURL)
	return SendEmailParams{
		Subject:  "Verify Your Email - KindNet",
		BodyHTML: body,
		Tag:      "email-verification",
	}
}

// PasswordResetEmail builds the password reset message. The URL carries the
// raw reset token; only its hash is ever persisted.
func PasswordResetEmail(resetURL string) SendEmailParams {
	body := fmt.Sprintf(`
      <h2>Password Reset Request</h2>
      <p>Click the link below to reset your password:</p>
      <a href="%s">Reset Password</a>
      <p>This link will expire in 1 hour.</p>
      <p>If you didn't request this, please ignore this email.</p>
    `, resetURL)
	return SendEmailParams{
		Subject:  "Password Reset - KindNet",
		BodyHTML: body,
		Tag:      "password-reset",
	}
}
