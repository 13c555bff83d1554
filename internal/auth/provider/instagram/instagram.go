package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	igendpoint "golang.org/x/oauth2/instagram"

	"storyshare/internal/auth"
)

const (
	providerName      = "instagram"
	defaultProfileURL = "https://graph.instagram.com/me?fields=id,username"
)

// Provider implements the Instagram login flow. Instagram exposes no
// email; the username doubles as the display name.
type Provider struct {
	oauthConfig *oauth2.Config
	profileURL  string
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("instagram oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     igendpoint.Endpoint,
	}

	return &Provider{
		oauthConfig: oauthCfg,
		profileURL:  defaultProfileURL,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL. State only, no PKCE.
func (p *Provider) AuthCodeURL(state string, _ string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *Provider) Exchange(
	ctx context.Context,
	code string,
	_ string,
) (*auth.Profile, error) {

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("instagram token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("instagram profile request failed: %w", err)
	}

	resp, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram profile fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram profile fetch returned status %d", resp.StatusCode)
	}

	var raw struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("instagram profile parse failed: %w", err)
	}

	if raw.ID == "" {
		return nil, errors.New("instagram profile missing id")
	}

	return &auth.Profile{
		Provider:       providerName,
		ProviderUserID: raw.ID,
		DisplayName:    raw.Username,
	}, nil
}
