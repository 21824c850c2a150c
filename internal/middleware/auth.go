package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/response"
	"github.com/go-authgate/payapproval/internal/services"
	"github.com/go-authgate/payapproval/internal/token"

	"github.com/gin-gonic/gin"
)

// TokenValidator verifies session tokens issued at login.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

// XeroCredentialSource loads the deployment's active Xero credential.
type XeroCredentialSource interface {
	ActiveToken(ctx context.Context) (*models.XeroToken, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// claims and the caller in the gin context.
func RequireAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "Access token required", "")
			return
		}

		claims, err := tokens.ValidateToken(raw)
		switch {
		case errors.Is(err, token.ErrExpiredToken):
			response.Fail(c, http.StatusUnauthorized, "Access token expired", response.CodeTokenExpired)
			return
		case err != nil:
			response.Fail(c, http.StatusForbidden, "Invalid access token", response.CodeInvalidToken)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserKey, &models.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Name:  claims.UserName,
			Role:  claims.Role,
		})
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok || !user.IsAdmin() {
			response.Fail(c, http.StatusForbidden, "Admin only authorization.", "")
			return
		}
		c.Next()
	}
}

// RequireXeroToken loads the active Xero credential for the handler. It does
// not refresh; expiry is handled where the credential is used.
func RequireXeroToken(xero XeroCredentialSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, err := xero.ActiveToken(c.Request.Context())
		if errors.Is(err, services.ErrXeroNotConnected) {
			response.Fail(c, http.StatusBadRequest,
				"Xero not connected. Admin must complete authentication.",
				response.CodeXeroNotConnected)
			return
		}
		if err != nil {
			log.Printf("[Xero] Failed to load active token: %v", err)
			response.Fail(c, http.StatusInternalServerError, "Failed to load Xero connection", response.CodeInternal)
			return
		}

		c.Set(XeroCredKey, cred)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
