package bootstrap

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/go-authgate/payapproval/internal/config"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateXeroConfig(cfg); err != nil {
		return fmt.Errorf("invalid Xero configuration: %w", err)
	}
	return nil
}

// validateXeroConfig checks the settings the consent flow depends on
func validateXeroConfig(cfg *config.Config) error {
	u, err := url.Parse(cfg.XeroRedirectURI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("XERO_REDIRECT_URI must be an absolute URL, got %q", cfg.XeroRedirectURI)
	}
	// without offline_access Xero issues no refresh token
	if !slices.Contains(cfg.XeroScopes, "offline_access") {
		return errors.New("XERO_SCOPES must include offline_access")
	}
	return nil
}
