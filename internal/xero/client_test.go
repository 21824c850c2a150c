package xero

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(),
		WithBaseURL(srv.URL+"/api.xro/2.0/"),
		WithConnectionsURL(srv.URL+"/connections"),
		WithTimeout(2*time.Second),
	)
}

var testSession = Session{AccessToken: "access-1", TenantID: "tenant-1"}

func TestClient_InvoicesPaged(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.xro/2.0/Invoices", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		assert.Equal(t, "tenant-1", r.Header.Get("xero-tenant-id"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		q := r.URL.Query()
		assert.Equal(t, `Type=="ACCPAY" AND Status=="AUTHORISED"`, q.Get("where"))
		assert.Equal(t, "DueDate ASC", q.Get("order"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("pageSize"))
		assert.Equal(t, "acme", q.Get("searchTerm"))
		assert.Equal(t, "AUTHORISED,PAID", q.Get("Statuses"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Id": "b1",
			"Status": "OK",
			"pagination": {"page": 2, "pageSize": 10, "pageCount": 3, "itemCount": 25},
			"Invoices": [{
				"InvoiceID": "inv-1",
				"InvoiceNumber": "INV-001",
				"Type": "ACCPAY",
				"Status": "AUTHORISED",
				"Contact": {"ContactID": "c-1", "Name": "Acme"},
				"Date": "/Date(1518685950940+0000)/",
				"DueDate": "/Date(1519862400000+0000)/",
				"CurrencyCode": "NZD",
				"Total": 115.5,
				"AmountDue": 115.5,
				"AmountPaid": 0
			}]
		}`))
	})

	page, err := client.Invoices(context.Background(), testSession, Query{
		Where:      `Type=="ACCPAY" AND Status=="AUTHORISED"`,
		Order:      "DueDate ASC",
		Page:       intPtr(2),
		PageSize:   intPtr(10),
		SearchTerm: "acme",
		Statuses:   []string{"AUTHORISED", "PAID"},
	})
	require.NoError(t, err)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, Pagination{Page: 2, PageSize: 10, PageCount: 3, ItemCount: 25}, *page.Pagination)
	require.Len(t, page.Invoices, 1)

	inv := page.Invoices[0]
	assert.Equal(t, "inv-1", inv.InvoiceID)
	assert.Equal(t, "Acme", inv.Contact.Name)
	assert.InDelta(t, 115.5, inv.AmountDue, 0.001)
	require.NotNil(t, inv.Date)
	assert.Equal(t, int64(1518685950940), inv.Date.UnixMilli())

	// camelCase out, the shape the frontend reads
	encoded, err := json.Marshal(inv)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(encoded, &generic))
	assert.Contains(t, generic, "invoiceID")
	assert.Contains(t, generic, "amountDue")
	assert.Equal(t, "2018-02-15T09:12:30Z", generic["date"])
}

func TestClient_AccountsIgnoresPaging(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.xro/2.0/Accounts", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("page"))
		assert.Empty(t, r.URL.Query().Get("pageSize"))
		assert.Equal(t, `Type=="BANK"`, r.URL.Query().Get("where"))
		_, _ = w.Write([]byte(`{"Accounts":[{"AccountID":"a-1","Code":"090","Name":"Business Bank","Type":"BANK","Status":"ACTIVE","BankAccountNumber":"0123"}]}`))
	})

	accounts, err := client.Accounts(context.Background(), testSession, Query{
		Where:    `Type=="BANK"`,
		Page:     intPtr(1),
		PageSize: intPtr(10),
	})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "0123", accounts[0].BankAccountNumber)
}

func TestClient_TaxRatesEndpoint(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.xro/2.0/TaxRates", r.URL.Path)
		_, _ = w.Write([]byte(`{"TaxRates":[{"Name":"GST on Expenses","TaxType":"INPUT2","Status":"ACTIVE","EffectiveRate":15.0,"DisplayTaxRate":15.0}]}`))
	})

	rates, err := client.TaxRates(context.Background(), testSession, Query{})
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "INPUT2", rates[0].TaxType)
	assert.InDelta(t, 15.0, rates[0].EffectiveRate, 0.001)
}

func TestClient_Connections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/connections", r.URL.Path)
		assert.Empty(t, r.Header.Get("xero-tenant-id"))
		_, _ = w.Write([]byte(`[{"id":"conn-1","tenantId":"tenant-9","tenantType":"ORGANISATION","tenantName":"Demo Co"}]`))
	})

	conns, err := client.Connections(context.Background(), "access-1")
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "tenant-9", conns[0].TenantID)
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantType    string
		wantDetails int
	}{
		{
			name:        "validation exception",
			status:      http.StatusBadRequest,
			body:        `{"ErrorNumber":16,"Type":"QueryParseException","Message":"No property or field 'Foo' exists"}`,
			wantMessage: "No property or field 'Foo' exists",
			wantType:    "QueryParseException",
		},
		{
			name:        "validation elements",
			status:      http.StatusBadRequest,
			body:        `{"Type":"ValidationException","Message":"A validation exception occurred","Elements":[{"ValidationErrors":[{"Message":"Bad date"}]}]}`,
			wantMessage: "A validation exception occurred",
			wantType:    "ValidationException",
			wantDetails: 1,
		},
		{
			name:        "problem details",
			status:      http.StatusUnauthorized,
			body:        `{"Title":"Unauthorized","Status":401,"Detail":"TokenExpired: token expired"}`,
			wantMessage: "TokenExpired: token expired",
		},
		{
			name:        "plain text",
			status:      http.StatusTooManyRequests,
			body:        "rate limited",
			wantMessage: "rate limited",
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			wantMessage: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Contacts(context.Background(), testSession, Query{})
			require.Error(t, err)

			apiErr, ok := IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Len(t, apiErr.Elements, tt.wantDetails)
		})
	}
}

func TestClient_MissingSession(t *testing.T) {
	client := NewClient(nil)

	_, err := client.Invoices(context.Background(), Session{AccessToken: "a"}, Query{})
	assert.ErrorIs(t, err, ErrMissingSession)

	_, err = client.Connections(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.Client(), WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := client.Accounts(context.Background(), testSession, Query{})
	require.Error(t, err)
	_, isAPI := IsAPIError(err)
	assert.False(t, isAPI)
}

func TestQueryPaginated(t *testing.T) {
	assert.True(t, Query{Page: intPtr(1), PageSize: intPtr(10)}.Paginated())
	assert.False(t, Query{Page: intPtr(1)}.Paginated())
	assert.False(t, Query{PageSize: intPtr(10)}.Paginated())
	assert.False(t, Query{}.Paginated())
}
