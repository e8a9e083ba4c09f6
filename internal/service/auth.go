package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/config"
	"github.com/kindnet/kindnet-server/internal/email"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/password"
)

// Auth drives the account lifecycle: registration, email verification,
// login with lockout, and the password reset flow.
type Auth struct {
	users       model.UserStore
	resetTokens model.PasswordResetTokenStore
	tokens      model.TokenManager
	hasher      password.Hasher
	notifier    email.Sender
	logger      *logger.Logger

	lockoutThreshold int
	lockoutDuration  time.Duration
	resetTokenTTL    time.Duration
	verificationTTL  time.Duration
	notifierTimeout  time.Duration
	frontendURL      string
	backendURL       string
}

func NewAuth(
	users model.UserStore,
	resetTokens model.PasswordResetTokenStore,
	tokens model.TokenManager,
	hasher password.Hasher,
	notifier email.Sender,
	logger *logger.Logger,
	authConf config.Auth,
	urls config.URLs,
) *Auth {
	return &Auth{
		users:            users,
		resetTokens:      resetTokens,
		tokens:           tokens,
		hasher:           hasher,
		notifier:         notifier,
		logger:           logger,
		lockoutThreshold: authConf.LockoutThreshold,
		lockoutDuration:  authConf.LockoutDuration,
		resetTokenTTL:    authConf.ResetTokenTTL,
		verificationTTL:  authConf.VerificationTTL,
		notifierTimeout:  authConf.NotifierTimeout,
		frontendURL:      urls.Frontend,
		backendURL:       urls.Backend,
	}
}

// RegisterParams carries validated registration input. Validation happens at
// the transport layer; the service only normalizes the email.
type RegisterParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	ZipCode     string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  model.Public
}

// NormalizeEmail lowercases and trims an address so the same mailbox always
// maps to the same row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// randomToken returns 32 random bytes hex-encoded.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// hashToken produces the persisted form of a reset token. Only the digest is
// ever stored; a leaked table does not yield usable tokens.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Register creates an unverified user and mails the verification link.
// The user row is committed before the notification attempt; a notifier
// failure surfaces as an internal error but the row stays, recoverable via
// ResendVerification.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (model.Public, error) {
	emailAddr := NormalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting user registration",
		"email", emailAddr)

	_, err := a.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", emailAddr)
		return model.Public{}, apierrors.NewAlreadyExists()
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return model.Public{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	passwordHash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", emailAddr,
			"error", err.Error())
		return model.Public{}, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := randomToken()
	if err != nil {
		return model.Public{}, err
	}
	expiresAt := time.Now().Add(a.verificationTTL)

	now := time.Now()
	user := model.User{
		Email:               emailAddr,
		PasswordHash:        passwordHash,
		FirstName:           params.FirstName,
		LastName:            params.LastName,
		PhoneNumber:         params.PhoneNumber,
		ZipCode:             params.ZipCode,
		VerificationToken:   &verificationToken,
		VerificationExpires: &expiresAt,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	saved, err := a.users.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", emailAddr,
			"error", err.Error())
		return model.Public{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err := a.sendVerificationEmail(ctx, emailAddr, verificationToken); err != nil {
		a.logger.Error("Auth service: failed to send verification email",
			"email", emailAddr,
			"error", err.Error())
		return model.Public{}, apierrors.NewInternal(err)
	}

	a.logger.Info("Auth service: user registered",
		"email", emailAddr)

	return saved.Public(), nil
}

// VerifyEmail consumes a verification token. Wrong token, unknown email,
// already verified and expired token are indistinguishable to the caller.
func (a *Auth) VerifyEmail(ctx context.Context, emailAddr, token string) error {
	emailAddr = NormalizeEmail(emailAddr)

	ok, err := a.users.VerifyEmail(ctx, emailAddr, token, time.Now())
	if err != nil {
		a.logger.Error("Auth service: failed to verify email",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to verify email: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: verification token rejected",
			"email", emailAddr)
		return apierrors.NewInvalidOrExpiredToken()
	}

	a.logger.Info("Auth service: email verified",
		"email", emailAddr)
	return nil
}

// ResendVerification issues a fresh token for an unverified account and
// mails it. The response is a generic acknowledgement regardless of whether
// the email is registered or already verified.
func (a *Auth) ResendVerification(ctx context.Context, emailAddr string) error {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := a.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if user.IsVerified {
		return nil
	}

	verificationToken, err := randomToken()
	if err != nil {
		return err
	}

	err = a.users.SetVerificationToken(ctx, emailAddr, verificationToken, time.Now().Add(a.verificationTTL))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// verified concurrently
			return nil
		}
		a.logger.Error("Auth service: failed to set verification token",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to set verification token: %w", err)
	}

	if err := a.sendVerificationEmail(ctx, emailAddr, verificationToken); err != nil {
		a.logger.Error("Auth service: failed to send verification email",
			"email", emailAddr,
			"error", err.Error())
		return apierrors.NewInternal(err)
	}

	a.logger.Info("Auth service: verification email resent",
		"email", emailAddr)
	return nil
}

// Login authenticates a user. The account state is evaluated strictly in
// order: unknown email, active lockout, unverified email, then the password
// itself. A lockout short-circuits before any password comparison.
func (a *Auth) Login(ctx context.Context, emailAddr, plaintext string) (LoginResult, error) {
	emailAddr = NormalizeEmail(emailAddr)

	a.logger.Debug("Auth service: login attempt",
		"email", emailAddr)

	user, err := a.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return LoginResult{}, apierrors.NewInvalidCredentials()
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	now := time.Now()
	if user.Locked(now) {
		a.logger.Info("Auth service: login rejected, account locked",
			"email", emailAddr,
			"locked_until", user.LockedUntil)
		return LoginResult{}, apierrors.NewAccountLocked()
	}

	if !user.IsVerified {
		a.logger.Info("Auth service: login rejected, email not verified",
			"email", emailAddr)
		return LoginResult{}, apierrors.NewEmailNotVerified()
	}

	match, err := a.hasher.Compare(user.PasswordHash, plaintext)
	if err != nil {
		a.logger.Error("Auth service: failed to compare password",
			"email", emailAddr,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to compare password: %w", err)
	}

	if !match {
		attempts, lockedUntil, err := a.users.RecordFailedLogin(ctx, emailAddr, a.lockoutThreshold, a.lockoutDuration)
		if err != nil {
			a.logger.Error("Auth service: failed to record failed login",
				"email", emailAddr,
				"error", err.Error())
			return LoginResult{}, fmt.Errorf("failed to record failed login: %w", err)
		}
		if lockedUntil != nil {
			a.logger.Info("Auth service: account locked after repeated failures",
				"email", emailAddr,
				"attempts", attempts,
				"locked_until", lockedUntil)
			return LoginResult{}, apierrors.NewAccountLocked()
		}
		a.logger.Info("Auth service: wrong password",
			"email", emailAddr,
			"attempts", attempts)
		return LoginResult{}, apierrors.NewInvalidCredentials()
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := a.users.ResetLoginFailures(ctx, emailAddr); err != nil {
			a.logger.Error("Auth service: failed to reset login failures",
				"email", emailAddr,
				"error", err.Error())
			return LoginResult{}, fmt.Errorf("failed to reset login failures: %w", err)
		}
	}

	token, err := a.tokens.GenerateSessionToken(emailAddr)
	if err != nil {
		a.logger.Error("Auth service: failed to generate session token",
			"email", emailAddr,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	a.logger.Info("Auth service: login successful",
		"email", emailAddr)

	return LoginResult{Token: token, User: user.Public()}, nil
}

// RequestPasswordReset issues a single-use reset token and mails it. The
// caller always receives the same acknowledgement whether or not the email
// is registered.
func (a *Auth) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	emailAddr = NormalizeEmail(emailAddr)

	_, err := a.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Debug("Auth service: reset requested for unknown email",
				"email", emailAddr)
			return nil
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	rawToken, err := randomToken()
	if err != nil {
		return err
	}

	now := time.Now()
	err = a.resetTokens.Replace(ctx, model.PasswordResetToken{
		Email:     emailAddr,
		TokenHash: hashToken(rawToken),
		ExpiresAt: now.Add(a.resetTokenTTL),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to store reset token",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", a.frontendURL, url.QueryEscape(rawToken))
	if err := a.sendEmail(ctx, emailAddr, email.PasswordResetEmail(resetURL)); err != nil {
		a.logger.Error("Auth service: failed to send reset email",
			"email", emailAddr,
			"error", err.Error())
		return apierrors.NewInternal(err)
	}

	a.logger.Info("Auth service: password reset requested",
		"email", emailAddr)
	return nil
}

// ResetPassword validates a reset token, stores the new password and only
// then consumes the token. Rejected attempts leave the token live so the
// user can retry; consumption deletes the row, so of two concurrent attempts
// with the same token exactly one completes.
func (a *Auth) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	tokenHash := hashToken(rawToken)

	emailAddr, err := a.resetTokens.Lookup(ctx, tokenHash, time.Now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: reset token rejected")
			return apierrors.NewInvalidOrExpiredToken()
		}
		a.logger.Error("Auth service: failed to look up reset token",
			"error", err.Error())
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	user, err := a.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// account deleted after token issuance
			return apierrors.NewNotFound("user not found")
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	same, err := a.hasher.Compare(user.PasswordHash, newPassword)
	if err != nil {
		a.logger.Error("Auth service: failed to compare password",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to compare password: %w", err)
	}
	if same {
		return apierrors.NewSamePassword()
	}

	passwordHash, err := a.hasher.Hash(newPassword)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.users.UpdatePassword(ctx, emailAddr, passwordHash); err != nil {
		a.logger.Error("Auth service: failed to update password",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	if _, err := a.resetTokens.Consume(ctx, tokenHash, time.Now()); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// a concurrent attempt consumed the token after our lookup
			a.logger.Info("Auth service: reset token consumed concurrently",
				"email", emailAddr)
			return apierrors.NewInvalidOrExpiredToken()
		}
		a.logger.Error("Auth service: failed to consume reset token",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	a.logger.Info("Auth service: password reset completed",
		"email", emailAddr)
	return nil
}

// ValidateSession parses a bearer token and returns the email claim.
func (a *Auth) ValidateSession(token string) (string, error) {
	emailAddr, err := a.tokens.ParseSessionToken(token)
	if err != nil {
		return "", apierrors.NewUnauthenticated("invalid or expired session token")
	}
	return emailAddr, nil
}

func (a *Auth) sendVerificationEmail(ctx context.Context, emailAddr, token string) error {
	verificationURL := fmt.Sprintf("%s/auth/verify-email?email=%s&token=%s",
		a.backendURL, url.QueryEscape(emailAddr), url.QueryEscape(token))
	return a.sendEmail(ctx, emailAddr, email.VerificationEmail(verificationURL))
}

// sendEmail runs the notifier under a bounded timeout so a slow provider
// cannot hang the request.
func (a *Auth) sendEmail(ctx context.Context, to string, params email.SendEmailParams) error {
	params.SendTo = to

	ctx, cancel := context.WithTimeout(ctx, a.notifierTimeout)
	defer cancel()

	if err := a.notifier.SendEmail(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
