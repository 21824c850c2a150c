package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalTokenProvider signs and verifies HS512 session tokens
type LocalTokenProvider struct {
	secret     []byte
	expiration time.Duration
	audience   string
	issuer     string
	now        func() time.Time
}

func NewLocalTokenProvider(cfg *config.Config) *LocalTokenProvider {
	return &LocalTokenProvider{
		secret:     []byte(cfg.JWTSecret),
		expiration: cfg.JWTExpiration,
		audience:   cfg.JWTAudience,
		issuer:     cfg.JWTIssuer,
		now:        time.Now,
	}
}

// GenerateToken issues a session token for user
func (p *LocalTokenProvider) GenerateToken(user *models.User) (*TokenResult, error) {
	now := p.now()
	expiresAt := now.Add(p.expiration)

	claims := &Claims{
		UserID:   user.ID,
		UserName: user.Name,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{p.audience},
			Issuer:    p.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &TokenResult{
		TokenString: signed,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
		Claims:      claims,
	}, nil
}

// ValidateToken verifies signature, algorithm, audience, issuer and expiry.
func (p *LocalTokenProvider) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithAudience(p.audience),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
