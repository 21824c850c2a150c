package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-authgate/payapproval/internal/auth"
	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/store"
	"github.com/go-authgate/payapproval/internal/token"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)

const userCacheKeyPrefix = "user:"

// RegisterInput is a validated registration request
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// LoginResult is a signed session token and the user it was issued for
type LoginResult struct {
	User  *models.User
	Token *token.TokenResult
}

type UserService struct {
	store        *store.Store
	local        *auth.LocalAuthProvider
	tokens       *token.LocalTokenProvider
	userCache    core.Cache[models.User]
	userCacheTTL time.Duration
	metrics      core.Recorder
}

func NewUserService(
	s *store.Store,
	local *auth.LocalAuthProvider,
	tokens *token.LocalTokenProvider,
	userCache core.Cache[models.User],
	userCacheTTL time.Duration,
	m core.Recorder,
) *UserService {
	return &UserService{
		store:        s,
		local:        local,
		tokens:       tokens,
		userCache:    userCache,
		userCacheTTL: userCacheTTL,
		metrics:      m,
	}
}

// Register creates a local account. New accounts are administrators.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	defer func() { s.metrics.RecordRegistration(err == nil) }()

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(in.Email),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the password and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (res *LoginResult, err error) {
	defer func() { s.metrics.RecordLogin(err == nil) }()

	user, err := s.local.Authenticate(ctx, normalizeEmail(email), password)
	if err != nil {
		return nil, err
	}

	tok, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: tok}, nil
}

// GetUser returns a user by id through the user cache.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userCache.GetWithFetch(
		ctx,
		userCacheKeyPrefix+id,
		s.userCacheTTL,
		func(ctx context.Context, _ string) (models.User, error) {
			u, err := s.store.GetUserByID(ctx, id)
			if err != nil {
				return models.User{}, err
			}
			return *u, nil
		},
	)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ListUsers returns one page of users.
func (s *UserService) ListUsers(
	ctx context.Context,
	params store.PaginationParams,
) ([]models.User, store.PaginationResult, error) {
	users, page, err := s.store.ListUsersPaginated(ctx, params)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("list_users")
		return nil, store.PaginationResult{}, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, page, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
