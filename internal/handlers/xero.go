package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-authgate/payapproval/internal/middleware"
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/response"
	"github.com/go-authgate/payapproval/internal/services"
	"github.com/go-authgate/payapproval/internal/xero"

	"github.com/gin-gonic/gin"
)

// listQuery is the query string accepted by every Xero list endpoint.
// Page and PageSize stay nil when absent so the paged shape is only used
// when both are given.
type listQuery struct {
	Where      string `form:"where"`
	Order      string `form:"order"`
	SearchTerm string `form:"searchTerm"`
	Page       *int   `form:"page"     binding:"omitempty,min=1"`
	PageSize   *int   `form:"pageSize" binding:"omitempty,min=1,max=1000"`

	InvoiceNumbers []string `form:"invoiceNumbers"`
	ContactIDs     []string `form:"contactIds"`
	Statuses       []string `form:"statuses"`
}

func (q listQuery) toXero() xero.Query {
	return xero.Query{
		Where:          q.Where,
		Order:          q.Order,
		SearchTerm:     q.SearchTerm,
		Page:           q.Page,
		PageSize:       q.PageSize,
		InvoiceNumbers: q.InvoiceNumbers,
		ContactIDs:     q.ContactIDs,
		Statuses:       q.Statuses,
	}
}

type callbackRequest struct {
	Code  string `json:"code"  binding:"required"`
	State string `json:"state" binding:"required"`
}

type XeroHandler struct {
	xero *services.XeroService
}

func NewXeroHandler(xs *services.XeroService) *XeroHandler {
	return &XeroHandler{xero: xs}
}

// Auth returns the Xero consent URL for an admin
func (h *XeroHandler) Auth(c *gin.Context) {
	user, _ := middleware.GetUser(c)

	url, err := h.xero.ConsentURL(c.Request.Context(), user)
	switch {
	case errors.Is(err, services.ErrAdminOnly):
		response.Fail(c, http.StatusForbidden, "Admin only authorization.", "")
		return
	case err != nil:
		log.Printf("[Xero] Failed to start consent: %v", err)
		response.Fail(c, http.StatusInternalServerError, "Failed to start Xero authorization", response.CodeInternal)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"url": url}, "")
}

// Callback completes the consent flow with the code Xero redirected back with
func (h *XeroHandler) Callback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	user, _ := middleware.GetUser(c)
	err := h.xero.HandleCallback(c.Request.Context(), user, req.Code, req.State)
	switch {
	case errors.Is(err, services.ErrInvalidXeroState):
		response.Fail(c, http.StatusBadRequest, "Invalid or expired authorization state", response.CodeValidation)
		return
	case errors.Is(err, services.ErrXeroExchangeFailed):
		log.Printf("[Xero] Code exchange failed: %v", err)
		response.Fail(c, http.StatusBadRequest, "Xero authorization failed", response.CodeXeroAPIError)
		return
	case errors.Is(err, services.ErrNoXeroTenant):
		response.Fail(c, http.StatusBadRequest, "No Xero organisation was granted", response.CodeXeroAPIError)
		return
	case err != nil:
		respondXeroError(c, "callback", err)
		return
	}

	log.Printf("[Xero] Connected by user %s", user.ID)
	response.OK(c, http.StatusOK, nil, "Xero connected successfully")
}

// Connection reports whether the deployment has an active Xero credential
func (h *XeroHandler) Connection(c *gin.Context) {
	status, err := h.xero.ConnectionStatus(c.Request.Context())
	if err != nil {
		log.Printf("[Xero] Failed to read connection status: %v", err)
		response.Fail(c, http.StatusInternalServerError, "Failed to read Xero connection", response.CodeInternal)
		return
	}
	response.OK(c, http.StatusOK, status, "")
}

func (h *XeroHandler) Invoices(c *gin.Context) {
	listHandler(c, "invoices", h.xero.ListInvoices)
}

func (h *XeroHandler) Contacts(c *gin.Context) {
	listHandler(c, "contacts", h.xero.ListContacts)
}

func (h *XeroHandler) Accounts(c *gin.Context) {
	listHandler(c, "accounts", h.xero.ListAccounts)
}

func (h *XeroHandler) TaxRates(c *gin.Context) {
	listHandler(c, "tax_rates", h.xero.ListTaxRates)
}

// listHandler binds the query, runs list with the credential loaded by
// RequireXeroToken and writes the result in its own shape.
func listHandler[T any](
	c *gin.Context,
	resource string,
	list func(context.Context, xero.Query, *models.XeroToken) (services.ListResult[T], error),
) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		failValidation(c, err)
		return
	}

	cred, _ := middleware.GetXeroCredential(c)
	res, err := list(c.Request.Context(), q.toXero(), cred)
	if err != nil {
		respondXeroError(c, resource, err)
		return
	}

	switch r := res.(type) {
	case services.Paginated[T]:
		if r.Pagination != nil {
			response.Page(c, r.Data, r.Pagination, r.Message)
			return
		}
		response.OK(c, http.StatusOK, r.Data, r.Message)
	case services.ListOnly[T]:
		response.OK(c, http.StatusOK, r.Data, "")
	}
}

func respondXeroError(c *gin.Context, resource string, err error) {
	switch {
	case errors.Is(err, services.ErrXeroNotConnected):
		response.Fail(c, http.StatusBadRequest,
			"Xero not connected. Admin must complete authentication.",
			response.CodeXeroNotConnected)
		return
	case errors.Is(err, services.ErrXeroRefreshFailed):
		log.Printf("[Xero] Token refresh failed: %v", err)
		response.Fail(c, http.StatusUnauthorized,
			"Xero token invalid. Admin must reconnect.",
			response.CodeXeroRefreshFailed)
		return
	}

	if apiErr, ok := xero.IsAPIError(err); ok &&
		apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		response.Fail(c, apiErr.StatusCode, msg, response.CodeXeroAPIError)
		return
	}

	log.Printf("[Xero] %s request failed: %v", resource, err)
	response.Fail(c, http.StatusBadGateway, "Xero request failed", response.CodeXeroAPIError)
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	response.Fail(c, http.StatusNotFound, "Resource not found", response.CodeNotFound)
}
