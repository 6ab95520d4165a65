package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidIDToken marks a federated token the provider rejected.
var ErrInvalidIDToken = errors.New("invalid identity token")

// FederatedClaims is the identity asserted by an external provider.
type FederatedClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IdentityProvider verifies a federated ID token and returns the
// identity it asserts.
type IdentityProvider interface {
	Verify(ctx context.Context, idToken string) (*FederatedClaims, error)
}

// GoogleIdentityProvider validates Google ID tokens against the
// tokeninfo endpoint.
type GoogleIdentityProvider struct {
	clientID   string
	endpoint   string
	httpClient *http.Client
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

func NewGoogleIdentityProvider(clientID string) *GoogleIdentityProvider {
	return &GoogleIdentityProvider{
		clientID: clientID,
		endpoint: googleTokenInfoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenInfoResponse struct {
	Subject  string `json:"sub"`
	Audience string `json:"aud"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}

// Verify asks Google whether the ID token is valid and addressed to
// this application.
func (p *GoogleIdentityProvider) Verify(ctx context.Context, idToken string) (*FederatedClaims, error) {
	reqURL := fmt.Sprintf("%s?id_token=%s", p.endpoint, url.QueryEscape(idToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidIDToken
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Subject == "" {
		return nil, ErrInvalidIDToken
	}
	if p.clientID != "" && info.Audience != p.clientID {
		return nil, ErrInvalidIDToken
	}

	return &FederatedClaims{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
