package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-authgate/payapproval/internal/core"

	"golang.org/x/oauth2"
)

// Xero access tokens live for 30 minutes; used when a response omits expires_in.
const defaultXeroTokenLifetime = 30 * time.Minute

// XeroProviderConfig contains configuration for the Xero OAuth client
type XeroProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
}

// XeroProvider handles the OAuth 2.0 authorization code flow against Xero's
// identity server.
type XeroProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

var _ core.XeroAuthenticator = (*XeroProvider)(nil)

// NewXeroProvider creates a new Xero OAuth provider. httpClient carries the
// timeout for token endpoint calls; nil falls back to http.DefaultClient.
func NewXeroProvider(cfg XeroProviderConfig, httpClient *http.Client) *XeroProvider {
	return &XeroProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

// AuthCodeURL returns the Xero consent URL
func (p *XeroProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode exchanges authorization code for access and refresh tokens
func (p *XeroProvider) ExchangeCode(ctx context.Context, code string) (*core.XeroTokenSet, error) {
	token, err := p.config.Exchange(p.clientContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("xero code exchange failed: %w", err)
	}
	return p.toTokenSet(token, "")
}

// Refresh trades refreshToken for a new token pair. Xero rotates refresh
// tokens, so the returned RefreshToken replaces the old one.
func (p *XeroProvider) Refresh(ctx context.Context, refreshToken string) (*core.XeroTokenSet, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("xero refresh failed: empty refresh token")
	}
	src := p.config.TokenSource(p.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("xero refresh failed: %w", err)
	}
	return p.toTokenSet(token, refreshToken)
}

func (p *XeroProvider) clientContext(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

func (p *XeroProvider) toTokenSet(token *oauth2.Token, previousRefresh string) (*core.XeroTokenSet, error) {
	if token.AccessToken == "" {
		return nil, fmt.Errorf("xero token response has no access_token")
	}
	refresh := token.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = p.now().Add(defaultXeroTokenLifetime)
	}
	return &core.XeroTokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}
