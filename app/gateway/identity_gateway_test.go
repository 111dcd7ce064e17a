package gateway

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"study-auth/app/domain"
	mock_port "study-auth/app/mocks"
	"study-auth/app/utils/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newGatewayFixture(t *testing.T) (*IdentityGateway, *mock_port.MockIdentityDriver, *SessionEventHub, *TokenStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	driver := mock_port.NewMockIdentityDriver(ctrl)

	testLogger, err := logger.New("error")
	require.NoError(t, err)

	hub := NewSessionEventHub(testLogger)
	tokens := NewTokenStore(filepath.Join(t.TempDir(), "session.token"), testLogger)

	gw := NewIdentityGateway(driver, tokens, hub, testLogger)
	return gw, driver, hub, tokens
}

func validSession(t *testing.T) *domain.Session {
	t.Helper()
	session, err := domain.NewSession(uuid.New(), "kratos-session-1", "user@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)
	return session
}

func TestIdentityGateway_ProbeSession_NoToken(t *testing.T) {
	gw, _, _, _ := newGatewayFixture(t)

	session, err := gw.ProbeSession(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestIdentityGateway_ProbeSession_ValidToken(t *testing.T) {
	gw, driver, _, tokens := newGatewayFixture(t)
	tokens.Save("token-abc")

	want := validSession(t)
	driver.EXPECT().Whoami(gomock.Any(), "token-abc").Return(want, nil)

	session, err := gw.ProbeSession(context.Background())

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, want.UserID, session.UserID)
}

func TestIdentityGateway_ProbeSession_RevokedTokenCleared(t *testing.T) {
	gw, driver, _, tokens := newGatewayFixture(t)
	tokens.Save("stale-token")

	driver.EXPECT().Whoami(gomock.Any(), "stale-token").
		Return(nil, domain.NewAuthError(domain.ErrCodeSessionNotFound, "no active session", domain.ErrSessionNotFound))

	session, err := gw.ProbeSession(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, session)
	assert.Empty(t, tokens.Load(), "revoked token should be dropped")
}

func TestIdentityGateway_ProbeSession_TransientErrorSurfaces(t *testing.T) {
	gw, driver, _, tokens := newGatewayFixture(t)
	tokens.Save("token-abc")

	driver.EXPECT().Whoami(gomock.Any(), "token-abc").
		Return(nil, domain.NewAuthError(domain.ErrCodeServiceUnavailable, "backend down", domain.ErrServiceUnavailable))

	session, err := gw.ProbeSession(context.Background())

	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Nil(t, session)
	assert.Equal(t, "token-abc", tokens.Load(), "transient failures must not discard the token")
}

func TestIdentityGateway_SignIn_PersistsTokenAndPublishes(t *testing.T) {
	gw, driver, hub, tokens := newGatewayFixture(t)

	want := validSession(t)
	driver.EXPECT().PerformNativeLogin(gomock.Any(), "user@example.com", "secret").
		Return(want, "fresh-token", nil)

	events, cancel := hub.Subscribe()
	defer cancel()

	session, err := gw.SignInWithPassword(context.Background(), "user@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, want.UserID, session.UserID)
	assert.Equal(t, "fresh-token", tokens.Load())

	select {
	case ev := <-events:
		assert.Equal(t, domain.EventSignedIn, ev.Type)
		assert.Equal(t, want.UserID, ev.Subject())
	case <-time.After(time.Second):
		t.Fatal("expected a signed-in event")
	}
}

func TestIdentityGateway_SignIn_ErrorLeavesStateUntouched(t *testing.T) {
	gw, driver, _, tokens := newGatewayFixture(t)

	driver.EXPECT().PerformNativeLogin(gomock.Any(), "user@example.com", "wrong").
		Return(nil, "", domain.NewAuthError(domain.ErrCodeInvalidCredentials, "invalid", domain.ErrInvalidCredentials))

	session, err := gw.SignInWithPassword(context.Background(), "user@example.com", "wrong")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, session)
	assert.Empty(t, tokens.Load())
}

func TestIdentityGateway_SignUp_ConfirmationPending(t *testing.T) {
	gw, driver, hub, tokens := newGatewayFixture(t)

	driver.EXPECT().PerformNativeRegistration(gomock.Any(), "new@example.com", "secret").
		Return(nil, "", nil)

	events, cancel := hub.Subscribe()
	defer cancel()

	session, err := gw.SignUp(context.Background(), "new@example.com", "secret")

	assert.NoError(t, err)
	assert.Nil(t, session)
	assert.Empty(t, tokens.Load())

	select {
	case ev := <-events:
		t.Fatalf("unexpected event published: %v", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestIdentityGateway_SignUp_ImmediateSession(t *testing.T) {
	gw, driver, _, tokens := newGatewayFixture(t)

	want := validSession(t)
	driver.EXPECT().PerformNativeRegistration(gomock.Any(), "new@example.com", "secret").
		Return(want, "signup-token", nil)

	session, err := gw.SignUp(context.Background(), "new@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, want.UserID, session.UserID)
	assert.Equal(t, "signup-token", tokens.Load())
}

func TestIdentityGateway_InvalidateSession(t *testing.T) {
	gw, driver, hub, tokens := newGatewayFixture(t)
	tokens.Save("token-abc")

	driver.EXPECT().Logout(gomock.Any(), "token-abc").Return(nil)

	events, cancel := hub.Subscribe()
	defer cancel()

	err := gw.InvalidateSession(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, tokens.Load())

	select {
	case ev := <-events:
		assert.Equal(t, domain.EventSignedOut, ev.Type)
		assert.Nil(t, ev.Session)
	case <-time.After(time.Second):
		t.Fatal("expected a signed-out event")
	}
}

func TestIdentityGateway_InvalidateSession_TokenClearedEvenOnFailure(t *testing.T) {
	gw, driver, _, tokens := newGatewayFixture(t)
	tokens.Save("token-abc")

	driver.EXPECT().Logout(gomock.Any(), "token-abc").
		Return(domain.NewAuthError(domain.ErrCodeServiceUnavailable, "backend down", domain.ErrServiceUnavailable))

	err := gw.InvalidateSession(context.Background())

	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.Empty(t, tokens.Load(), "local sign-out must happen regardless of revocation outcome")
}

func TestIdentityGateway_InvalidateSession_AlreadyRevoked(t *testing.T) {
	gw, driver, _, tokens := newGatewayFixture(t)
	tokens.Save("token-abc")

	driver.EXPECT().Logout(gomock.Any(), "token-abc").
		Return(domain.NewAuthError(domain.ErrCodeSessionNotFound, "gone", domain.ErrSessionNotFound))

	assert.NoError(t, gw.InvalidateSession(context.Background()))
}

func TestIdentityGateway_InvalidateSession_NoToken(t *testing.T) {
	gw, _, _, _ := newGatewayFixture(t)

	assert.NoError(t, gw.InvalidateSession(context.Background()))
}
