package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/services"
	"github.com/go-authgate/payapproval/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenProvider(expiration time.Duration) *token.LocalTokenProvider {
	return token.NewLocalTokenProvider(&config.Config{
		JWTSecret:     "middleware-test-secret-value-123",
		JWTExpiration: expiration,
		JWTAudience:   "api",
		JWTIssuer:     "auth",
	})
}

func issue(t *testing.T, p *token.LocalTokenProvider, role string) string {
	t.Helper()
	res, err := p.GenerateToken(&models.User{
		ID:    "u-1",
		Email: "ada@example.com",
		Name:  "Ada",
		Role:  role,
	})
	require.NoError(t, err)
	return res.TokenString
}

type errorBody struct {
	Success    bool `json:"success"`
	StatusCode int  `json:"statusCode"`
	Error      struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func authRouter(p TokenValidator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(p)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := GetUser(c)
		claims, _ := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role, "jti": claims.ID})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	p := tokenProvider(time.Hour)
	w := get(authRouter(p), "Bearer "+issue(t, p, models.RoleAdmin))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u-1"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	r := authRouter(tokenProvider(time.Hour))

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc"} {
		w := get(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		body := decodeError(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "Access token required", body.Error.Message)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	p := tokenProvider(-time.Minute)
	w := get(authRouter(p), "Bearer "+issue(t, p, models.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, w).Error.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	p := tokenProvider(time.Hour)
	other := token.NewLocalTokenProvider(&config.Config{
		JWTSecret:     "a-different-secret-entirely-4567",
		JWTExpiration: time.Hour,
		JWTAudience:   "api",
		JWTIssuer:     "auth",
	})

	for _, raw := range []string{"not-a-jwt", issue(t, other, models.RoleAdmin)} {
		w := get(authRouter(p), "Bearer "+raw)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "INVALID_TOKEN", decodeError(t, w).Error.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	p := tokenProvider(time.Hour)
	r := authRouter(p, RequireAdmin())

	w := get(r, "Bearer "+issue(t, p, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "Bearer "+issue(t, p, models.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin only authorization.", decodeError(t, w).Error.Message)
}

func TestRequireAdmin_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, get(r, "").Code)
}

type fakeCredentialSource struct {
	cred *models.XeroToken
	err  error
}

func (f fakeCredentialSource) ActiveToken(context.Context) (*models.XeroToken, error) {
	return f.cred, f.err
}

func xeroRouter(src XeroCredentialSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireXeroToken(src), func(c *gin.Context) {
		cred, ok := GetXeroCredential(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tenantId": cred.TenantID})
	})
	return r
}

func TestRequireXeroToken(t *testing.T) {
	w := get(xeroRouter(fakeCredentialSource{
		cred: &models.XeroToken{ID: 1, TenantID: "tenant-1", Active: true},
	}), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tenant-1")
}

func TestRequireXeroToken_NotConnected(t *testing.T) {
	w := get(xeroRouter(fakeCredentialSource{err: services.ErrXeroNotConnected}), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "XERO_NOT_CONNECTED", body.Error.Code)
	assert.Equal(t, "Xero not connected. Admin must complete authentication.", body.Error.Message)
}

func TestRequireXeroToken_StoreError(t *testing.T) {
	w := get(xeroRouter(fakeCredentialSource{err: errors.New("db down")}), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer  abc ", "abc", true},
		{"Bearer", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}
