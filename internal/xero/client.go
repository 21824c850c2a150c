package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL        = "https://api.xero.com/api.xro/2.0"
	defaultConnectionsURL = "https://api.xero.com/connections"

	// maxErrorBody caps how much of an error response is kept in APIError.
	maxErrorBody = 4 << 10
)

// Client reads the Xero accounting API. It holds no credentials; every call
// takes the Session to authenticate with, so one Client is shared safely.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	connectionsURL string
	timeout        time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the accounting API root (tests, sandboxes).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithConnectionsURL overrides the connections endpoint.
func WithConnectionsURL(u string) Option {
	return func(c *Client) { c.connectionsURL = u }
}

// WithTimeout bounds each call, independent of the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client on top of httpClient
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient:     httpClient,
		baseURL:        defaultBaseURL,
		connectionsURL: defaultConnectionsURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connections lists the organisations the access token may address.
func (c *Client) Connections(ctx context.Context, accessToken string) ([]Connection, error) {
	if accessToken == "" {
		return nil, ErrMissingSession
	}
	var out []Connection
	if err := c.do(ctx, c.connectionsURL, accessToken, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Invoices fetches invoices matching q. Xero pages invoices only when a page is requested.
func (c *Client) Invoices(ctx context.Context, sess Session, q Query) (*InvoicesPage, error) {
	params := q.values()
	if len(q.InvoiceNumbers) > 0 {
		params.Set("InvoiceNumbers", strings.Join(q.InvoiceNumbers, ","))
	}
	if len(q.ContactIDs) > 0 {
		params.Set("ContactIDs", strings.Join(q.ContactIDs, ","))
	}
	if len(q.Statuses) > 0 {
		params.Set("Statuses", strings.Join(q.Statuses, ","))
	}

	var out InvoicesPage
	if err := c.get(ctx, sess, "Invoices", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Contacts fetches contacts matching q.
func (c *Client) Contacts(ctx context.Context, sess Session, q Query) (*ContactsPage, error) {
	var out ContactsPage
	if err := c.get(ctx, sess, "Contacts", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Accounts fetches the chart of accounts. The endpoint ignores paging.
func (c *Client) Accounts(ctx context.Context, sess Session, q Query) ([]Account, error) {
	var out accountsResponse
	if err := c.get(ctx, sess, "Accounts", q.filterValues(), &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// TaxRates fetches tax rates. The endpoint ignores paging.
func (c *Client) TaxRates(ctx context.Context, sess Session, q Query) ([]TaxRate, error) {
	var out taxRatesResponse
	if err := c.get(ctx, sess, "TaxRates", q.filterValues(), &out); err != nil {
		return nil, err
	}
	return out.TaxRates, nil
}

// filterValues encodes the parameters every endpoint accepts.
func (q Query) filterValues() url.Values {
	v := url.Values{}
	if q.Where != "" {
		v.Set("where", q.Where)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

// values adds paging and search parameters for the paged endpoints.
func (q Query) values() url.Values {
	v := q.filterValues()
	if q.Page != nil {
		v.Set("page", strconv.Itoa(*q.Page))
	}
	if q.PageSize != nil {
		v.Set("pageSize", strconv.Itoa(*q.PageSize))
	}
	if q.SearchTerm != "" {
		v.Set("searchTerm", q.SearchTerm)
	}
	return v
}

func (c *Client) get(ctx context.Context, sess Session, resource string, params url.Values, out any) error {
	if sess.AccessToken == "" || sess.TenantID == "" {
		return ErrMissingSession
	}
	endpoint := c.baseURL + "/" + resource
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return c.do(ctx, endpoint, sess.AccessToken, sess.TenantID, out)
}

func (c *Client) do(ctx context.Context, endpoint, accessToken, tenantID string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if tenantID != "" {
		req.Header.Set("xero-tenant-id", tenantID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("xero request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode xero response: %w", err)
	}
	return nil
}
