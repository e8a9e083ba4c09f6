package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kindnet/kindnet-server/internal/model"
)

var _ model.PasswordResetTokenStore = (*PasswordResetTokenRepository)(nil)

type PasswordResetTokenRepository struct {
	db *Connection
}

func NewPasswordResetTokenRepository(db *Connection) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

// Replace upserts on the email key, which both destroys any prior token for
// the address and keeps the at-most-one-live-token invariant without a
// transaction.
func (r *PasswordResetTokenRepository) Replace(ctx context.Context, token model.PasswordResetToken) error {
	const query = `
        INSERT INTO password_reset_tokens (email, token_hash, expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (email) DO UPDATE
        SET token_hash = EXCLUDED.token_hash, expires_at = EXCLUDED.expires_at, updated_at = NOW()
    `

	if _, err := r.db.Exec(ctx, query, token.Email, token.TokenHash, token.ExpiresAt); err != nil {
		return fmt.Errorf("failed to replace password reset token: %w", err)
	}
	return nil
}

// Lookup returns the email owning the unexpired matching row. The row stays
// in place; only Consume removes it.
func (r *PasswordResetTokenRepository) Lookup(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	const query = `
        SELECT email FROM password_reset_tokens
        WHERE token_hash = $1 AND expires_at > $2
    `

	var email string
	err := r.db.QueryRow(ctx, query, tokenHash, now).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to look up password reset token: %w", err)
	}
	return email, nil
}

// Consume deletes the unexpired matching row and returns its email. The
// delete-returning shape makes consumption at-most-once: of two concurrent
// calls with the same token, exactly one sees the row.
func (r *PasswordResetTokenRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	const query = `
        DELETE FROM password_reset_tokens
        WHERE token_hash = $1 AND expires_at > $2
        RETURNING email
    `

	var email string
	err := r.db.QueryRow(ctx, query, tokenHash, now).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to consume password reset token: %w", err)
	}
	return email, nil
}
