package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
//
// All mutations are single-statement read-modify-write operations so that
// concurrent server instances rely on the database for serialization only.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
	// VerifyEmail flips is_verified and clears the verification token in one
	// conditional update. It reports whether a matching unverified row with
	// an unexpired token existed.
	VerifyEmail(ctx context.Context, email, token string, now time.Time) (bool, error)
	SetVerificationToken(ctx context.Context, email, token string, expiresAt time.Time) error
	// RecordFailedLogin atomically increments failed_login_attempts and sets
	// locked_until once the counter reaches threshold. It returns the new
	// counter value and the lock deadline, if any.
	RecordFailedLogin(ctx context.Context, email string, threshold int, lockFor time.Duration) (int, *time.Time, error)
	// ResetLoginFailures zeroes the counter and clears locked_until.
	ResetLoginFailures(ctx context.Context, email string) error
	LinkGoogleID(ctx context.Context, email, googleID string, avatarURL *string) error
	SetAvatar(ctx context.Context, email string, avatarURL, avatarKey *string) error
}

// User represents a stored user keyed by lowercase email.
type User struct {
	Email               string
	PasswordHash        string
	FirstName           string
	LastName            string
	PhoneNumber         string
	ZipCode             string
	IsVerified          bool
	VerificationToken   *string
	VerificationExpires *time.Time
	FailedLoginAttempts int
	LockedUntil         *time.Time
	GoogleID            *string
	AvatarURL           *string
	AvatarKey           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account is under a temporary lockout at now.
func (u User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Public is the user representation safe to return to clients. The password
// hash, verification token and storage key never leave the server.
type Public struct {
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	ZipCode     string  `json:"zip_code"`
	IsVerified  bool    `json:"is_verified"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// Public strips secrets from the user record.
func (u User) Public() Public {
	return Public{
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		ZipCode:     u.ZipCode,
		IsVerified:  u.IsVerified,
		AvatarURL:   u.AvatarURL,
	}
}
