// Package oauth adapts external identity providers to the FederatedProvider
// interface consumed by the auth service.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/kindnet/kindnet-server/internal/config"
	"github.com/kindnet/kindnet-server/internal/model"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider resolves Google OAuth authorization codes into normalized
// federated profiles.
type GoogleProvider struct {
	conf       *oauth2.Config
	httpClient *http.Client
	// overridable in tests
	userInfoURL string
}

var _ model.FederatedProvider = (*GoogleProvider)(nil)

// NewGoogleProvider creates a Google OAuth provider adapter.
func NewGoogleProvider(cfg config.OAuth) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		userInfoURL: googleUserInfoURL,
	}
}

// AuthURL builds the authorization URL carrying the given state token.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ResolveProfile exchanges the authorization code for the user's Google
// profile.
func (p *GoogleProvider) ResolveProfile(ctx context.Context, code string) (model.FederatedProfile, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return model.FederatedProfile{}, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	u, err := p.fetchGoogleUser(ctx, tok.AccessToken)
	if err != nil {
		return model.FederatedProfile{}, fmt.Errorf("failed to fetch google user: %w", err)
	}
	if u.Email == "" {
		return model.FederatedProfile{}, fmt.Errorf("google profile has no email")
	}

	return model.FederatedProfile{
		SubjectID:     u.ID,
		Email:         u.Email,
		FirstName:     u.GivenName,
		LastName:      u.FamilyName,
		AvatarURL:     u.Picture,
		EmailVerified: u.VerifiedEmail,
	}, nil
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (p *GoogleProvider) fetchGoogleUser(ctx context.Context, accessToken string) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
