package model

import "context"

// FederatedProfile is a normalized identity obtained from an external
// OAuth provider.
type FederatedProfile struct {
	SubjectID     string
	Email         string
	FirstName     string
	LastName      string
	AvatarURL     string
	EmailVerified bool
}

// FederatedProvider exchanges an authorization code for a normalized
// profile, decoupled from the transport callback mechanics.
type FederatedProvider interface {
	AuthURL(state string) string
	ResolveProfile(ctx context.Context, code string) (FederatedProfile, error)
}
