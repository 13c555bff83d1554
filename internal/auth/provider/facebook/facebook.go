package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	fbendpoint "golang.org/x/oauth2/facebook"

	"storyshare/internal/auth"
)

const (
	providerName      = "facebook"
	defaultProfileURL = "https://graph.facebook.com/me?fields=id,name,email,picture"
)

// Provider implements the Facebook login flow: plain authorization-code
// exchange followed by a Graph API profile fetch. Facebook issues no
// id_token, so the profile endpoint is the source of identity facts.
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
		return nil, errors.New("facebook oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     fbendpoint.Endpoint,
		Scopes:       []string{"email"},
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

// AuthCodeURL builds the OAuth authorization URL. Facebook's flow here
// is state-only; the PKCE challenge is not sent.
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
		return nil, fmt.Errorf("facebook token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("facebook profile request failed: %w", err)
	}

	resp, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook profile fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook profile fetch returned status %d", resp.StatusCode)
	}

	var raw struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("facebook profile parse failed: %w", err)
	}

	if raw.ID == "" {
		return nil, errors.New("facebook profile missing id")
	}

	return &auth.Profile{
		Provider:        providerName,
		ProviderUserID:  raw.ID,
		DisplayName:     raw.Name,
		Email:           raw.Email,
		ProfileImageURL: raw.Picture.Data.URL,
	}, nil
}
