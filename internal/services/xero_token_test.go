package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-authgate/payapproval/internal/core"
	"github.com/go-authgate/payapproval/internal/metrics"
	"github.com/go-authgate/payapproval/internal/mocks"
	"github.com/go-authgate/payapproval/internal/models"
	"github.com/go-authgate/payapproval/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTokenManager(s core.XeroTokenStore, a core.XeroAuthenticator, r core.Recorder) *XeroTokenManager {
	m := NewXeroTokenManager(s, a, r, 5*time.Second)
	m.now = func() time.Time { return testNow }
	return m
}

func expiredToken() *models.XeroToken {
	return &models.XeroToken{
		ID:           7,
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		ExpiresAt:    testNow.Add(-time.Minute),
		TenantID:     "tenant-1",
		Active:       true,
	}
}

func TestEnsureValidToken_NotConnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestTokenManager(
		mocks.NewMockXeroTokenStore(ctrl),
		mocks.NewMockXeroAuthenticator(ctrl),
		metrics.NewNoopMetrics(),
	)

	_, err := m.EnsureValidToken(context.Background(), nil)
	assert.ErrorIs(t, err, ErrXeroNotConnected)
}

func TestEnsureValidToken_FreshTokenSkipsRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no expectations: any store or provider call fails the test
	m := newTestTokenManager(
		mocks.NewMockXeroTokenStore(ctrl),
		mocks.NewMockXeroAuthenticator(ctrl),
		metrics.NewNoopMetrics(),
	)

	cred := expiredToken()
	cred.ExpiresAt = testNow.Add(10 * time.Minute)

	sess, err := m.EnsureValidToken(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, "old-access", sess.AccessToken)
	assert.Equal(t, "tenant-1", sess.TenantID)
}

func TestEnsureValidToken_ExpiryBoundaryRefreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockXeroTokenStore(ctrl)
	mockAuth := mocks.NewMockXeroAuthenticator(ctrl)

	cred := expiredToken()
	cred.ExpiresAt = testNow

	mockStore.EXPECT().GetActiveXeroToken(gomock.Any()).Return(cred, nil)
	mockAuth.EXPECT().Refresh(gomock.Any(), "old-refresh").Return(&core.XeroTokenSet{
		AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresAt: testNow.Add(30 * time.Minute),
	}, nil)
	mockStore.EXPECT().UpdateActiveXeroToken(gomock.Any(), uint(7), gomock.Any()).Return(nil)

	sess, err := newTestTokenManager(mockStore, mockAuth, metrics.NewNoopMetrics()).
		EnsureValidToken(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, "new-access", sess.AccessToken)
}

func TestEnsureValidToken_RefreshPersistsBeforeReturning(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockXeroTokenStore(ctrl)
	mockAuth := mocks.NewMockXeroAuthenticator(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	cred := expiredToken()
	newExpiry := testNow.Add(30 * time.Minute)

	gomock.InOrder(
		mockStore.EXPECT().GetActiveXeroToken(gomock.Any()).Return(cred, nil),
		mockAuth.EXPECT().Refresh(gomock.Any(), "old-refresh").Return(&core.XeroTokenSet{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresAt:    newExpiry,
		}, nil),
		recorder.EXPECT().RecordXeroTokenRefresh(true, gomock.Any()),
		mockStore.EXPECT().UpdateActiveXeroToken(gomock.Any(), uint(7), models.XeroTokenUpdate{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresAt:    newExpiry,
		}).Return(nil),
	)

	sess, err := newTestTokenManager(mockStore, mockAuth, recorder).
		EnsureValidToken(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, "new-access", sess.AccessToken)
	assert.Equal(t, newExpiry, sess.ExpiresAt)
	assert.Equal(t, "tenant-1", sess.TenantID, "refresh must not change the tenant")
}

func TestEnsureValidToken_RefreshRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockXeroTokenStore(ctrl)
	mockAuth := mocks.NewMockXeroAuthenticator(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	mockStore.EXPECT().GetActiveXeroToken(gomock.Any()).Return(expiredToken(), nil)
	mockAuth.EXPECT().Refresh(gomock.Any(), "old-refresh").
		Return(nil, errors.New("invalid_grant"))
	recorder.EXPECT().RecordXeroTokenRefresh(false, gomock.Any())
	// UpdateActiveXeroToken must not be called

	_, err := newTestTokenManager(mockStore, mockAuth, recorder).
		EnsureValidToken(context.Background(), expiredToken())
	require.ErrorIs(t, err, ErrXeroRefreshFailed)
	assert.NotErrorIs(t, err, ErrXeroNotConnected)
}

func TestEnsureValidToken_AlreadyRefreshedElsewhere(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockXeroTokenStore(ctrl)
	mockAuth := mocks.NewMockXeroAuthenticator(ctrl)

	current := expiredToken()
	current.AccessToken = "refreshed-by-peer"
	current.ExpiresAt = testNow.Add(20 * time.Minute)
	mockStore.EXPECT().GetActiveXeroToken(gomock.Any()).Return(current, nil)

	sess, err := newTestTokenManager(mockStore, mockAuth, metrics.NewNoopMetrics()).
		EnsureValidToken(context.Background(), expiredToken())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-by-peer", sess.AccessToken)
}

func TestEnsureValidToken_DisconnectedDuringRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockXeroTokenStore(ctrl)
	mockStore.EXPECT().GetActiveXeroToken(gomock.Any()).Return(nil, nil)

	_, err := newTestTokenManager(mockStore, mocks.NewMockXeroAuthenticator(ctrl), metrics.NewNoopMetrics()).
		EnsureValidToken(context.Background(), expiredToken())
	assert.ErrorIs(t, err, ErrXeroNotConnected)
}

func TestEnsureValidToken_PersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockXeroTokenStore(ctrl)
	mockAuth := mocks.NewMockXeroAuthenticator(ctrl)

	mockStore.EXPECT().GetActiveXeroToken(gomock.Any()).Return(expiredToken(), nil)
	mockAuth.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(&core.XeroTokenSet{
		AccessToken: "a", RefreshToken: "r", ExpiresAt: testNow.Add(time.Hour),
	}, nil)
	mockStore.EXPECT().UpdateActiveXeroToken(gomock.Any(), uint(7), gomock.Any()).
		Return(store.ErrXeroTokenNotFound)

	_, err := newTestTokenManager(mockStore, mockAuth, metrics.NewNoopMetrics()).
		EnsureValidToken(context.Background(), expiredToken())
	assert.ErrorIs(t, err, store.ErrXeroTokenNotFound)
}

func TestEnsureValidToken_CallerCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockXeroTokenStore(ctrl)
	mockAuth := mocks.NewMockXeroAuthenticator(ctrl)

	release := make(chan struct{})
	done := make(chan struct{})
	mockStore.EXPECT().GetActiveXeroToken(gomock.Any()).Return(expiredToken(), nil)
	mockAuth.EXPECT().Refresh(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) (*core.XeroTokenSet, error) {
			<-release
			return &core.XeroTokenSet{AccessToken: "a", RefreshToken: "r", ExpiresAt: testNow.Add(time.Hour)}, nil
		})
	// the flight outlives the cancelled caller and still persists the rotation
	mockStore.EXPECT().UpdateActiveXeroToken(gomock.Any(), uint(7), gomock.Any()).
		DoAndReturn(func(context.Context, uint, models.XeroTokenUpdate) error {
			close(done)
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestTokenManager(mockStore, mockAuth, metrics.NewNoopMetrics()).
		EnsureValidToken(ctx, expiredToken())
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh was not persisted after the caller went away")
	}
}

// countingAuthenticator is a slow fake identity server.
type countingAuthenticator struct {
	calls atomic.Int64
	delay time.Duration
}

func (a *countingAuthenticator) AuthCodeURL(state string) string { return "" }

func (a *countingAuthenticator) ExchangeCode(context.Context, string) (*core.XeroTokenSet, error) {
	return nil, errors.New("not used")
}

func (a *countingAuthenticator) Refresh(_ context.Context, rt string) (*core.XeroTokenSet, error) {
	a.calls.Add(1)
	time.Sleep(a.delay)
	return &core.XeroTokenSet{
		AccessToken:  "access-after-" + rt,
		RefreshToken: "rotated-" + rt,
		ExpiresAt:    testNow.Add(30 * time.Minute),
	}, nil
}

func TestEnsureValidToken_ConcurrentRequestsRefreshOnce(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveXeroToken(ctx, &models.XeroToken{
		AccessToken:  "old-access",
		RefreshToken: "rt-1",
		ExpiresAt:    testNow.Add(-time.Minute),
		TenantID:     "tenant-1",
	}))
	cred, err := s.GetActiveXeroToken(ctx)
	require.NoError(t, err)

	auth := &countingAuthenticator{delay: 100 * time.Millisecond}
	m := newTestTokenManager(s, auth, metrics.NewNoopMetrics())

	const n = 25
	var wg sync.WaitGroup
	tokens := make([]string, n)
	for i := range n {
		wg.Go(func() {
			// every request loaded the same stale row
			stale := *cred
			sess, err := m.EnsureValidToken(ctx, &stale)
			assert.NoError(t, err)
			tokens[i] = sess.AccessToken
		})
	}
	wg.Wait()

	assert.Equal(t, int64(1), auth.calls.Load())
	for _, tok := range tokens {
		assert.Equal(t, "access-after-rt-1", tok)
	}

	stored, err := s.GetActiveXeroToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated-rt-1", stored.RefreshToken)
	assert.Equal(t, "tenant-1", stored.TenantID)
}
