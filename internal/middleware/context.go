package middleware

import (
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/token"

	"github.com/gin-gonic/gin"
)

// Gin context keys set by the guards in this package
const (
	ClaimsKey   = "claims"
	UserKey     = "user"
	XeroCredKey = "xero_token"
)

// GetClaims returns the JWT claims set by RequireAuth.
func GetClaims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// GetUser returns the caller as described by their token.
func GetUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// GetXeroCredential returns the credential loaded by RequireXeroToken.
func GetXeroCredential(c *gin.Context) (*models.XeroToken, bool) {
	v, ok := c.Get(XeroCredKey)
	if !ok {
		return nil, false
	}
	cred, ok := v.(*models.XeroToken)
	return cred, ok
}
