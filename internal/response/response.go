// Package response writes the JSON envelope every API endpoint returns:
//
//	{"success": true, "statusCode": 200, "data": ..., "pagination": ..., "message": ..., "error": null}
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes the frontend branches on
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeXeroNotConnected  = "XERO_NOT_CONNECTED"
	CodeXeroRefreshFailed = "XERO_REFRESH_FAILED"
	CodeXeroAPIError      = "XERO_API_ERROR"
	CodeNotFound          = "ENDPOINT_NOT_FOUND"
	CodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	CodeInternal          = "INTERNAL_ERROR"
)

type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Pagination any    `json:"pagination,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      *Error `json:"error"`
}

type Error struct {
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK writes a successful envelope.
func OK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{
		Success:    true,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

// Page writes a successful envelope with paging metadata next to data.
func Page(c *gin.Context, data, pagination any, message string) {
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		StatusCode: http.StatusOK,
		Data:       data,
		Pagination: pagination,
		Message:    message,
	})
}

// Fail aborts the request with an error envelope.
func Fail(c *gin.Context, status int, message, code string, fields ...FieldError) {
	c.AbortWithStatusJSON(status, Envelope{
		StatusCode: status,
		Error: &Error{
			Message: message,
			Code:    code,
			Errors:  fields,
		},
	})
}
