package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
)

// Federated bridges external OAuth identities onto local accounts. Sign-in
// without a prior local registration is rejected; the provider never creates
// accounts on its own.
type Federated struct {
	users    model.UserStore
	tokens   model.TokenManager
	provider model.FederatedProvider
	logger   *logger.Logger
}

func NewFederated(
	users model.UserStore,
	tokens model.TokenManager,
	provider model.FederatedProvider,
	logger *logger.Logger,
) *Federated {
	return &Federated{
		users:    users,
		tokens:   tokens,
		provider: provider,
		logger:   logger,
	}
}

// AuthURL returns the provider consent page URL for the given state value.
func (f *Federated) AuthURL(state string) string {
	return f.provider.AuthURL(state)
}

// Login exchanges the callback code for a profile and signs the matching
// local user in. The external subject id is attached to the account on first
// federated login, and the account becomes verified.
func (f *Federated) Login(ctx context.Context, code string) (LoginResult, error) {
	profile, err := f.provider.ResolveProfile(ctx, code)
	if err != nil {
		f.logger.Error("Federated service: failed to resolve profile",
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to resolve profile: %w", err)
	}

	// linking force-verifies the local account, so the provider must have
	// verified the address itself
	if !profile.EmailVerified {
		f.logger.Info("Federated service: provider email not verified",
			"email", profile.Email)
		return LoginResult{}, apierrors.NewUnauthenticated("external email not verified")
	}

	emailAddr := NormalizeEmail(profile.Email)

	user, err := f.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			f.logger.Info("Federated service: no local account for external profile",
				"email", emailAddr)
			return LoginResult{}, apierrors.NewNotFound("user not found")
		}
		f.logger.Error("Federated service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.GoogleID == nil || *user.GoogleID != profile.SubjectID {
		var avatarURL *string
		if profile.AvatarURL != "" {
			avatarURL = &profile.AvatarURL
		}
		if err := f.users.LinkGoogleID(ctx, emailAddr, profile.SubjectID, avatarURL); err != nil {
			f.logger.Error("Federated service: failed to link external id",
				"email", emailAddr,
				"error", err.Error())
			return LoginResult{}, fmt.Errorf("failed to link external id: %w", err)
		}
		user, err = f.users.GetByEmail(ctx, emailAddr)
		if err != nil {
			return LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
		}
	}

	token, err := f.tokens.GenerateSessionToken(emailAddr)
	if err != nil {
		f.logger.Error("Federated service: failed to generate session token",
			"email", emailAddr,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	f.logger.Info("Federated service: federated login successful",
		"email", emailAddr)

	return LoginResult{Token: token, User: user.Public()}, nil
}

// Link attaches an external subject id to the authenticated user's account.
func (f *Federated) Link(ctx context.Context, emailAddr, subjectID string) error {
	emailAddr = NormalizeEmail(emailAddr)

	if err := f.users.LinkGoogleID(ctx, emailAddr, subjectID, nil); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewNotFound("user not found")
		}
		f.logger.Error("Federated service: failed to link external id",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to link external id: %w", err)
	}

	f.logger.Info("Federated service: external id linked",
		"email", emailAddr)
	return nil
}
