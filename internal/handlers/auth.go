package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/response"
	"github.com/go-authgate/payapproval/internal/services"
	"github.com/go-authgate/payapproval/internal/util"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email           string `json:"email"           binding:"required,email,max=50"`
	Password        string `json:"password"        binding:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	Name            string `json:"name"            binding:"required,max=255"`
	Phone           string `json:"phone"           binding:"omitempty,max=20,phone"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email,max=50"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// userSummary is the public view of an account returned by auth endpoints
type userSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func summarize(u *models.User) userSummary {
	return userSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	registerValidators()
	return &AuthHandler{users: users}
}

// Register creates a local account
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, "Email already registered", "DUPLICATE_ENTRY")
		return
	case err != nil:
		log.Printf("[Auth] Registration failed: %v", err)
		response.Fail(c, http.StatusInternalServerError, "Registration failed", response.CodeInternal)
		return
	}

	log.Printf("[Auth] Registered user %s", user.ID)
	response.OK(c, http.StatusCreated, gin.H{"user": summarize(user)}, "User registered successfully")
}

// Login exchanges email and password for a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		log.Printf("[Auth] Failed login from %s", util.GetIPFromContext(c.Request.Context()))
		response.Fail(c, http.StatusUnauthorized, "Authentication failed", "")
		return
	case err != nil:
		log.Printf("[Auth] Login failed: %v", err)
		response.Fail(c, http.StatusInternalServerError, "Authentication failed", response.CodeInternal)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"token":     res.Token.TokenString,
		"tokenType": res.Token.TokenType,
		"expiresAt": res.Token.ExpiresAt,
		"user":      summarize(res.User),
	}, "Login successful")
}
