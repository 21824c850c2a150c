package core

import (
	"context"
	"time"

	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/xero"
)

// XeroTokenStore persists the deployment's single active Xero credential.
type XeroTokenStore interface {
	// GetActiveXeroToken returns (nil, nil) when the integration was never connected.
	GetActiveXeroToken(ctx context.Context) (*models.XeroToken, error)
	// SaveXeroToken atomically deactivates every active row and inserts token as active.
	SaveXeroToken(ctx context.Context, token *models.XeroToken) error
	// UpdateActiveXeroToken rewrites tokens and expiry of row id if it is still active.
	UpdateActiveXeroToken(ctx context.Context, id uint, update models.XeroTokenUpdate) error
}

// XeroTokenSet is the outcome of a code exchange or refresh against the Xero
// identity server.
type XeroTokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// XeroAuthenticator is the OAuth 2.0 side of the Xero integration.
type XeroAuthenticator interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*XeroTokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*XeroTokenSet, error)
}

// XeroAPI is the subset of the Xero accounting API the service reads.
type XeroAPI interface {
	Connections(ctx context.Context, accessToken string) ([]xero.Connection, error)
	Invoices(ctx context.Context, sess xero.Session, q xero.Query) (*xero.InvoicesPage, error)
	Contacts(ctx context.Context, sess xero.Session, q xero.Query) (*xero.ContactsPage, error)
	Accounts(ctx context.Context, sess xero.Session, q xero.Query) ([]xero.Account, error)
	TaxRates(ctx context.Context, sess xero.Session, q xero.Query) ([]xero.TaxRate, error)
}
