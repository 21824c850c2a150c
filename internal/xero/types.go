package xero

import "time"

// Session authenticates one outbound call. It is built per request from the
// stored credential and never shared between requests.
type Session struct {
	AccessToken string
	TenantID    string
	ExpiresAt   time.Time
}

// Query carries the list parameters forwarded to Xero. Where and Order are
// provider expressions passed through verbatim.
type Query struct {
	Where      string
	Order      string
	SearchTerm string
	Page       *int
	PageSize   *int

	// Invoice filters
	InvoiceNumbers []string
	ContactIDs     []string
	Statuses       []string
}

// Paginated reports whether the caller asked for a specific page.
func (q Query) Paginated() bool {
	return q.Page != nil && q.PageSize != nil
}

// Pagination is Xero's paging metadata for paged endpoints.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	ItemCount int `json:"itemCount"`
}

// Connection is one organisation the access token was granted for.
type Connection struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	TenantType string `json:"tenantType"`
	TenantName string `json:"tenantName"`
}

type ContactRef struct {
	ContactID string `json:"contactID"`
	Name      string `json:"name,omitempty"`
}

type Invoice struct {
	InvoiceID     string     `json:"invoiceID"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Reference     string     `json:"reference,omitempty"`
	Contact       ContactRef `json:"contact"`
	Date          *Date      `json:"date,omitempty"`
	DueDate       *Date      `json:"dueDate,omitempty"`
	CurrencyCode  string     `json:"currencyCode"`
	SubTotal      float64    `json:"subTotal"`
	TotalTax      float64    `json:"totalTax"`
	Total         float64    `json:"total"`
	AmountDue     float64    `json:"amountDue"`
	AmountPaid    float64    `json:"amountPaid"`
	UpdatedDate   *Date      `json:"updatedDateUTC,omitempty"`
}

type BatchPayments struct {
	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	BankAccountName   string `json:"bankAccountName,omitempty"`
	Details           string `json:"details,omitempty"`
	Code              string `json:"code,omitempty"`
	Reference         string `json:"reference,omitempty"`
}

type Contact struct {
	ContactID          string         `json:"contactID"`
	ContactNumber      string         `json:"contactNumber,omitempty"`
	ContactStatus      string         `json:"contactStatus,omitempty"`
	Name               string         `json:"name"`
	EmailAddress       string         `json:"emailAddress,omitempty"`
	BankAccountDetails string         `json:"bankAccountDetails,omitempty"`
	BatchPayments      *BatchPayments `json:"batchPayments,omitempty"`
	IsSupplier         bool           `json:"isSupplier"`
	IsCustomer         bool           `json:"isCustomer"`
	UpdatedDate        *Date          `json:"updatedDateUTC,omitempty"`
}

type Account struct {
	AccountID         string `json:"accountID"`
	Code              string `json:"code,omitempty"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Class             string `json:"class,omitempty"`
	Status            string `json:"status"`
	TaxType           string `json:"taxType,omitempty"`
	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	CurrencyCode      string `json:"currencyCode,omitempty"`
}

type TaxRate struct {
	Name          string  `json:"name"`
	TaxType       string  `json:"taxType"`
	Status        string  `json:"status"`
	ReportTaxType string  `json:"reportTaxType,omitempty"`
	EffectiveRate float64 `json:"effectiveRate"`
	DisplayRate   float64 `json:"displayTaxRate"`
}

// InvoicesPage is one response of the Invoices endpoint. Pagination is nil
// when Xero returned the full list.
type InvoicesPage struct {
	Invoices   []Invoice   `json:"invoices"`
	Pagination *Pagination `json:"pagination"`
}

// ContactsPage is one response of the Contacts endpoint.
type ContactsPage struct {
	Contacts   []Contact   `json:"contacts"`
	Pagination *Pagination `json:"pagination"`
}

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type taxRatesResponse struct {
	TaxRates []TaxRate `json:"taxRates"`
}
