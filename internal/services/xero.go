package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/payapproval/internal/cache"
	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/util"
	"github.com/go-authgate/payapproval/internal/xero"
)

var (
	ErrAdminOnly          = errors.New("admin only authorization")
	ErrInvalidXeroState   = errors.New("invalid or expired xero state")
	ErrXeroExchangeFailed = errors.New("xero authorization code exchange failed")
	ErrNoXeroTenant       = errors.New("no xero organisation available for this connection")
)

// Confirmation messages returned with paginated results
const (
	InvoicesSyncedMessage = "Invoices synced successfully"
	ContactsSyncedMessage = "Contacts synced successfully"
	AccountsSyncedMessage = "Accounts synced successfully"
	TaxRatesSyncedMessage = "Tax rates synced successfully"
)

const xeroStateKeyPrefix = "xero_state:"

// ListResult is the outcome of a list operation: either Paginated, when the
// caller asked for a page, or ListOnly. Callers must handle both.
type ListResult[T any] interface {
	Items() []T
	isListResult()
}

// Paginated is returned when both page and pageSize were supplied.
// Pagination is nil for endpoints Xero does not page.
type Paginated[T any] struct {
	Data       []T
	Pagination *xero.Pagination
	Message    string
}

func (p Paginated[T]) Items() []T { return p.Data }
func (Paginated[T]) isListResult() {}

// ListOnly is returned when no page was requested.
type ListOnly[T any] struct {
	Data []T
}

func (l ListOnly[T]) Items() []T { return l.Data }
func (ListOnly[T]) isListResult() {}

func shapeList[T any](q xero.Query, items []T, pagination *xero.Pagination, message string) ListResult[T] {
	if items == nil {
		items = []T{}
	}
	if q.Paginated() {
		return Paginated[T]{Data: items, Pagination: pagination, Message: message}
	}
	return ListOnly[T]{Data: items}
}

// XeroConnectionStatus describes the active credential without exposing tokens.
type XeroConnectionStatus struct {
	Connected bool       `json:"connected"`
	TenantID  string     `json:"tenantId,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// XeroServiceConfig holds the integration settings XeroService needs
type XeroServiceConfig struct {
	TenantID string        // pinned organisation; empty picks the first connection
	StateTTL time.Duration // lifetime of a consent state
}

// XeroService connects the deployment to Xero and reads accounting data
// through the active credential.
type XeroService struct {
	store         core.XeroTokenStore
	tokens        *XeroTokenManager
	authenticator core.XeroAuthenticator
	api           core.XeroAPI
	stateCache    core.Cache[string]
	metrics       core.Recorder
	cfg           XeroServiceConfig
}

func NewXeroService(
	s core.XeroTokenStore,
	tokens *XeroTokenManager,
	authenticator core.XeroAuthenticator,
	api core.XeroAPI,
	stateCache core.Cache[string],
	m core.Recorder,
	cfg XeroServiceConfig,
) *XeroService {
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	return &XeroService{
		store:         s,
		tokens:        tokens,
		authenticator: authenticator,
		api:           api,
		stateCache:    stateCache,
		metrics:       m,
		cfg:           cfg,
	}
}

// ActiveToken returns the active credential, or ErrXeroNotConnected.
func (s *XeroService) ActiveToken(ctx context.Context) (*models.XeroToken, error) {
	token, err := s.store.GetActiveXeroToken(ctx)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("get_active_xero_token")
		return nil, fmt.Errorf("failed to load xero token: %w", err)
	}
	if token == nil {
		return nil, ErrXeroNotConnected
	}
	return token, nil
}

// ConsentURL starts the Xero consent flow for an admin user.
func (s *XeroService) ConsentURL(ctx context.Context, user *models.User) (string, error) {
	if user == nil || !user.IsAdmin() {
		return "", ErrAdminOnly
	}

	state, err := util.NewOAuthState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	if err := s.stateCache.Set(ctx, stateKey(state), user.ID, s.cfg.StateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return s.authenticator.AuthCodeURL(state), nil
}

// HandleCallback completes consent: it exchanges code, selects the tenant and
// replaces the active credential. state must be one ConsentURL issued to the
// same user; it is consumed whether or not the rest succeeds.
func (s *XeroService) HandleCallback(
	ctx context.Context,
	user *models.User,
	code, state string,
) (err error) {
	defer func() { s.metrics.RecordXeroCallback(err == nil) }()

	if user == nil || state == "" {
		return ErrInvalidXeroState
	}
	owner, err := s.consumeState(ctx, state)
	if err != nil {
		return err
	}
	if owner != user.ID {
		return ErrInvalidXeroState
	}

	set, err := s.authenticator.ExchangeCode(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrXeroExchangeFailed, err)
	}

	conns, err := s.api.Connections(ctx, set.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to list xero connections: %w", err)
	}
	tenantID, err := s.selectTenant(conns)
	if err != nil {
		return err
	}

	if err := s.store.SaveXeroToken(ctx, &models.XeroToken{
		AccessToken:  set.AccessToken,
		RefreshToken: set.RefreshToken,
		ExpiresAt:    set.ExpiresAt,
		TenantID:     tenantID,
	}); err != nil {
		s.metrics.RecordDatabaseQueryError("save_xero_token")
		return fmt.Errorf("failed to save xero token: %w", err)
	}
	return nil
}

// consumeState deletes state and returns the id of the user it was issued to.
func (s *XeroService) consumeState(ctx context.Context, state string) (string, error) {
	key := stateKey(state)
	owner, err := s.stateCache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return "", ErrInvalidXeroState
		}
		return "", fmt.Errorf("failed to read state: %w", err)
	}
	if err := s.stateCache.Delete(ctx, key); err != nil {
		return "", fmt.Errorf("failed to consume state: %w", err)
	}
	return owner, nil
}

// stateKey stores states hashed so the raw value never reaches Redis.
func stateKey(state string) string {
	return xeroStateKeyPrefix + util.SHA256Hex(state)
}

func (s *XeroService) selectTenant(conns []xero.Connection) (string, error) {
	if s.cfg.TenantID != "" {
		for _, c := range conns {
			if c.TenantID == s.cfg.TenantID {
				return c.TenantID, nil
			}
		}
		return "", fmt.Errorf("%w: tenant %s not granted", ErrNoXeroTenant, s.cfg.TenantID)
	}
	for _, c := range conns {
		if c.TenantType == "ORGANISATION" {
			return c.TenantID, nil
		}
	}
	if len(conns) > 0 {
		return conns[0].TenantID, nil
	}
	return "", ErrNoXeroTenant
}

// ConnectionStatus reports whether Xero is connected and for which tenant.
func (s *XeroService) ConnectionStatus(ctx context.Context) (*XeroConnectionStatus, error) {
	token, err := s.store.GetActiveXeroToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load xero token: %w", err)
	}
	if token == nil {
		return &XeroConnectionStatus{Connected: false}, nil
	}
	return &XeroConnectionStatus{
		Connected: true,
		TenantID:  token.TenantID,
		ExpiresAt: &token.ExpiresAt,
		Expired:   token.IsExpired(s.tokens.now()),
		UpdatedAt: &token.UpdatedAt,
	}, nil
}

// ListInvoices lists invoices for cred's tenant.
func (s *XeroService) ListInvoices(
	ctx context.Context,
	q xero.Query,
	cred *models.XeroToken,
) (ListResult[xero.Invoice], error) {
	sess, err := s.tokens.EnsureValidToken(ctx, cred)
	if err != nil {
		return nil, err
	}
	page, err := observe(s.metrics, "invoices", func() (*xero.InvoicesPage, error) {
		return s.api.Invoices(ctx, sess, q)
	})
	if err != nil {
		return nil, err
	}
	return shapeList(q, page.Invoices, page.Pagination, InvoicesSyncedMessage), nil
}

// ListContacts lists contacts for cred's tenant.
func (s *XeroService) ListContacts(
	ctx context.Context,
	q xero.Query,
	cred *models.XeroToken,
) (ListResult[xero.Contact], error) {
	sess, err := s.tokens.EnsureValidToken(ctx, cred)
	if err != nil {
		return nil, err
	}
	page, err := observe(s.metrics, "contacts", func() (*xero.ContactsPage, error) {
		return s.api.Contacts(ctx, sess, q)
	})
	if err != nil {
		return nil, err
	}
	return shapeList(q, page.Contacts, page.Pagination, ContactsSyncedMessage), nil
}

// ListAccounts lists the chart of accounts. Xero does not page accounts.
func (s *XeroService) ListAccounts(
	ctx context.Context,
	q xero.Query,
	cred *models.XeroToken,
) (ListResult[xero.Account], error) {
	sess, err := s.tokens.EnsureValidToken(ctx, cred)
	if err != nil {
		return nil, err
	}
	accounts, err := observe(s.metrics, "accounts", func() ([]xero.Account, error) {
		return s.api.Accounts(ctx, sess, q)
	})
	if err != nil {
		return nil, err
	}
	return shapeList(q, accounts, nil, AccountsSyncedMessage), nil
}

// ListTaxRates lists tax rates. Xero does not page tax rates.
func (s *XeroService) ListTaxRates(
	ctx context.Context,
	q xero.Query,
	cred *models.XeroToken,
) (ListResult[xero.TaxRate], error) {
	sess, err := s.tokens.EnsureValidToken(ctx, cred)
	if err != nil {
		return nil, err
	}
	rates, err := observe(s.metrics, "tax_rates", func() ([]xero.TaxRate, error) {
		return s.api.TaxRates(ctx, sess, q)
	})
	if err != nil {
		return nil, err
	}
	return shapeList(q, rates, nil, TaxRatesSyncedMessage), nil
}

func observe[R any](m core.Recorder, resource string, call func() (R, error)) (R, error) {
	start := time.Now()
	out, err := call()
	m.RecordXeroAPICall(resource, err == nil, time.Since(start))
	return out, err
}
