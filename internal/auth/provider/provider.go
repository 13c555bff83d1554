package provider

import (
	"context"

	"storyshare/internal/auth"
)

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return identity facts only and
// must not perform user creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "facebook").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller; providers
	// that do not support PKCE ignore the challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// Exchange trades the authorization code for provider credentials
	// and returns a normalized profile. No auth decisions are made here.
	Exchange(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Profile, error)
}
