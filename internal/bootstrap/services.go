package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-authgate/payapproval/internal/auth"
	"github.com/go-authgate/payapproval/internal/client"
	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/services"
	"github.com/go-authgate/payapproval/internal/store"
	"github.com/go-authgate/payapproval/internal/token"
	"github.com/go-authgate/payapproval/internal/xero"
)

// initializeServices creates all business logic services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	userCache core.Cache[models.User],
	stateCache core.Cache[string],
	recorder core.Recorder,
) (*token.LocalTokenProvider, *services.UserService, *services.XeroService, error) {
	tokenProvider := token.NewLocalTokenProvider(cfg)

	userService := services.NewUserService(
		db,
		auth.NewLocalAuthProvider(db),
		tokenProvider,
		userCache,
		cfg.UserCacheTTL,
		recorder,
	)

	httpClient, err := client.NewHTTPClient(cfg.XeroTimeout)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create Xero HTTP client: %w", err)
	}

	xeroProvider := auth.NewXeroProvider(auth.XeroProviderConfig{
		ClientID:     cfg.XeroClientID,
		ClientSecret: cfg.XeroClientSecret,
		RedirectURL:  cfg.XeroRedirectURI,
		Scopes:       cfg.XeroScopes,
		AuthURL:      cfg.XeroAuthURL,
		TokenURL:     cfg.XeroTokenURL,
	}, httpClient)

	xeroClient := xero.NewClient(
		httpClient,
		xero.WithBaseURL(cfg.XeroAPIBaseURL),
		xero.WithConnectionsURL(cfg.XeroConnectionsURL),
		xero.WithTimeout(cfg.XeroTimeout),
	)

	tokenManager := services.NewXeroTokenManager(db, xeroProvider, recorder, cfg.XeroRefreshTimeout)
	xeroService := services.NewXeroService(
		db,
		tokenManager,
		xeroProvider,
		xeroClient,
		stateCache,
		recorder,
		services.XeroServiceConfig{
			TenantID: cfg.XeroTenantID,
			StateTTL: cfg.XeroStateTTL,
		},
	)

	log.Printf("[Xero] Integration configured (redirect: %s, scopes: %v)", cfg.XeroRedirectURI, cfg.XeroScopes)
	if cfg.XeroTenantID != "" {
		log.Printf("[Xero] Pinned to tenant %s", cfg.XeroTenantID)
	}

	return tokenProvider, userService, xeroService, nil
}
