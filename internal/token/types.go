package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeBearer = "Bearer"

// Claims is the session token payload the frontend decodes.
type Claims struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenResult is a freshly signed session token.
type TokenResult struct {
	TokenString string
	TokenType   string
	ExpiresAt   time.Time
	Claims      *Claims
}
