package model

import (
	"context"
	"time"
)

// PasswordResetTokenStore persists hashed single-use reset tokens.
// At most one live token exists per email; the email column is the key.
type PasswordResetTokenStore interface {
	// Replace destroys any previous token for the email and stores the new one.
	Replace(ctx context.Context, token PasswordResetToken) error
	// Lookup returns the owning email of the unexpired row matching tokenHash
	// without consuming it.
	Lookup(ctx context.Context, tokenHash string, now time.Time) (string, error)
	// Consume deletes the unexpired row matching tokenHash and returns the
	// owning email. Exactly one of two concurrent calls with the same token
	// can succeed; the loser gets ErrNotFound.
	Consume(ctx context.Context, tokenHash string, now time.Time) (string, error)
}

// PasswordResetToken holds the SHA-256 digest of a reset token. The raw
// token value is only ever sent to the user and never persisted.
type PasswordResetToken struct {
	Email     string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
