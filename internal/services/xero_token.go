package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/xero"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrXeroNotConnected means no credential exists; an admin must complete consent.
	ErrXeroNotConnected = errors.New("xero not connected")
	// ErrXeroRefreshFailed means Xero rejected the refresh; an admin must reconnect.
	ErrXeroRefreshFailed = errors.New("xero token refresh failed")
)

const refreshFlightKey = "xero:refresh"

// XeroTokenManager hands out request-scoped Xero sessions, refreshing the
// stored credential when it has expired. Concurrent refreshes collapse into
// one call to Xero.
type XeroTokenManager struct {
	store          core.XeroTokenStore
	authenticator  core.XeroAuthenticator
	metrics        core.Recorder
	refreshTimeout time.Duration
	group          singleflight.Group
	now            func() time.Time
}

func NewXeroTokenManager(
	s core.XeroTokenStore,
	authenticator core.XeroAuthenticator,
	m core.Recorder,
	refreshTimeout time.Duration,
) *XeroTokenManager {
	return &XeroTokenManager{
		store:          s,
		authenticator:  authenticator,
		metrics:        m,
		refreshTimeout: refreshTimeout,
		now:            time.Now,
	}
}

// EnsureValidToken returns a session for cred, refreshing it first when its
// access token has expired. The refreshed token is persisted before the
// session is returned; the tenant never changes.
func (m *XeroTokenManager) EnsureValidToken(
	ctx context.Context,
	cred *models.XeroToken,
) (xero.Session, error) {
	if cred == nil {
		return xero.Session{}, ErrXeroNotConnected
	}
	if !cred.IsExpired(m.now()) {
		return sessionFor(cred), nil
	}

	ch := m.group.DoChan(refreshFlightKey, func() (any, error) {
		// Detached from the caller: a rotated refresh token must be stored
		// even if the request that triggered the refresh goes away.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.refreshTimeout)
		defer cancel()
		return m.refresh(fctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return xero.Session{}, res.Err
		}
		return res.Val.(xero.Session), nil
	case <-ctx.Done():
		return xero.Session{}, ctx.Err()
	}
}

// refresh runs inside the single flight. It re-reads the active credential,
// since a previous flight may already have refreshed it.
func (m *XeroTokenManager) refresh(ctx context.Context) (xero.Session, error) {
	current, err := m.store.GetActiveXeroToken(ctx)
	if err != nil {
		return xero.Session{}, fmt.Errorf("failed to load xero token: %w", err)
	}
	if current == nil {
		return xero.Session{}, ErrXeroNotConnected
	}
	if !current.IsExpired(m.now()) {
		return sessionFor(current), nil
	}

	start := time.Now()
	set, err := m.authenticator.Refresh(ctx, current.RefreshToken)
	m.metrics.RecordXeroTokenRefresh(err == nil, time.Since(start))
	if err != nil {
		return xero.Session{}, fmt.Errorf("%w: %v", ErrXeroRefreshFailed, err)
	}

	if err := m.store.UpdateActiveXeroToken(ctx, current.ID, models.XeroTokenUpdate{
		AccessToken:  set.AccessToken,
		RefreshToken: set.RefreshToken,
		ExpiresAt:    set.ExpiresAt,
	}); err != nil {
		m.metrics.RecordDatabaseQueryError("update_xero_token")
		return xero.Session{}, fmt.Errorf("failed to persist refreshed xero token: %w", err)
	}

	return xero.Session{
		AccessToken: set.AccessToken,
		TenantID:    current.TenantID,
		ExpiresAt:   set.ExpiresAt,
	}, nil
}

func sessionFor(t *models.XeroToken) xero.Session {
	return xero.Session{
		AccessToken: t.AccessToken,
		TenantID:    t.TenantID,
		ExpiresAt:   t.ExpiresAt,
	}
}
