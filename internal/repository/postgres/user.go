package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kindnet/kindnet-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `email, password_hash, first_name, last_name, phone_number, zip_code,
			  is_verified, verification_token, verification_expires_at,
			  failed_login_attempts, locked_until, google_id, avatar_url, avatar_key,
			  created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.PhoneNumber, &user.ZipCode, &user.IsVerified,
		&user.VerificationToken, &user.VerificationExpires,
		&user.FailedLoginAttempts, &user.LockedUntil, &user.GoogleID,
		&user.AvatarURL, &user.AvatarKey, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (email, password_hash, first_name, last_name, phone_number, zip_code,
			  is_verified, verification_token, verification_expires_at, google_id, avatar_url, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.PhoneNumber, user.ZipCode, user.IsVerified,
		user.VerificationToken, user.VerificationExpires, user.GoogleID,
		user.AvatarURL, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE email = $1`

	tag, err := r.db.Exec(ctx, query, email, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// VerifyEmail flips the verified flag in one conditional update so a token
// can only ever be consumed once. The WHERE clause covers wrong token,
// already verified, unknown email and expired token uniformly.
func (r *UserRepository) VerifyEmail(ctx context.Context, email, token string, now time.Time) (bool, error) {
	query := `UPDATE users
			  SET is_verified = TRUE, verification_token = NULL, verification_expires_at = NULL, updated_at = NOW()
			  WHERE email = $1 AND verification_token = $2 AND is_verified = FALSE
			    AND (verification_expires_at IS NULL OR verification_expires_at > $3)`

	tag, err := r.db.Exec(ctx, query, email, token, now)
	if err != nil {
		return false, fmt.Errorf("failed to verify email: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	query := `UPDATE users
			  SET verification_token = $2, verification_expires_at = $3, updated_at = NOW()
			  WHERE email = $1 AND is_verified = FALSE`

	tag, err := r.db.Exec(ctx, query, email, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set verification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// RecordFailedLogin increments the counter and decides the lockout in a
// single statement. Two concurrent failures cannot both observe the
// pre-increment value, so the threshold cannot be skipped.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, email string, threshold int, lockFor time.Duration) (int, *time.Time, error) {
	query := `UPDATE users
			  SET failed_login_attempts = failed_login_attempts + 1,
			      locked_until = CASE
			          WHEN failed_login_attempts + 1 >= $2 THEN NOW() + $3::interval
			          ELSE locked_until
			      END,
			      updated_at = NOW()
			  WHERE email = $1
			  RETURNING failed_login_attempts, locked_until`

	var attempts int
	var lockedUntil *time.Time
	interval := fmt.Sprintf("%f seconds", lockFor.Seconds())
	err := r.db.QueryRow(ctx, query, email, threshold, interval).Scan(&attempts, &lockedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, model.ErrNotFound
		}
		return 0, nil, fmt.Errorf("failed to record failed login: %w", err)
	}

	return attempts, lockedUntil, nil
}

func (r *UserRepository) ResetLoginFailures(ctx context.Context, email string) error {
	query := `UPDATE users
			  SET failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
			  WHERE email = $1`

	tag, err := r.db.Exec(ctx, query, email)
	if err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// LinkGoogleID attaches the federated subject id and marks the account
// verified. The avatar is only filled in when the user has none.
func (r *UserRepository) LinkGoogleID(ctx context.Context, email, googleID string, avatarURL *string) error {
	query := `UPDATE users
			  SET google_id = $2, is_verified = TRUE,
			      verification_token = NULL, verification_expires_at = NULL,
			      avatar_url = COALESCE(avatar_url, $3),
			      updated_at = NOW()
			  WHERE email = $1`

	tag, err := r.db.Exec(ctx, query, email, googleID, avatarURL)
	if err != nil {
		return fmt.Errorf("failed to link google id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetAvatar(ctx context.Context, email string, avatarURL, avatarKey *string) error {
	query := `UPDATE users SET avatar_url = $2, avatar_key = $3, updated_at = NOW() WHERE email = $1`

	tag, err := r.db.Exec(ctx, query, email, avatarURL, avatarKey)
	if err != nil {
		return fmt.Errorf("failed to set avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
