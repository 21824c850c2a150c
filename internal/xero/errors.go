package xero

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingSession is returned when a call is attempted without an access token or tenant.
var ErrMissingSession = errors.New("xero session requires access token and tenant id")

// APIError is a non-2xx response from Xero. It is returned unchanged to callers
// so the HTTP layer can map the status code.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Elements   []ValidationError
}

// ValidationError is one entry of a Xero ValidationException.
type ValidationError struct {
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("xero api error (%d %s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("xero api error (%d): %s", e.StatusCode, e.Message)
}

// IsAPIError unwraps err to an *APIError.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// xeroErrorBody covers both error shapes Xero returns: accounting API
// exceptions and identity/problem-details bodies.
type xeroErrorBody struct {
	Type     string `json:"Type"`
	Message  string `json:"Message"`
	Title    string `json:"Title"`
	Detail   string `json:"Detail"`
	Elements []struct {
		ValidationErrors []ValidationError `json:"ValidationErrors"`
	} `json:"Elements"`
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var parsed xeroErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Type = parsed.Type
		switch {
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		case parsed.Detail != "":
			apiErr.Message = parsed.Detail
		default:
			apiErr.Message = parsed.Title
		}
		for _, el := range parsed.Elements {
			apiErr.Elements = append(apiErr.Elements, el.ValidationErrors...)
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}
