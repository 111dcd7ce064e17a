package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-auth/app/domain"
	"study-auth/app/usecase"
	"study-auth/app/utils/logger"
)

// stubSessions implements SessionController with overridable functions.
type stubSessions struct {
	signIn      func(ctx context.Context, email, password string) (*domain.AuthUser, error)
	signUp      func(ctx context.Context, email, password string) (*domain.AuthUser, error)
	signOut     func(ctx context.Context) error
	snapshot    func() usecase.Snapshot
	waitForInit func(ctx context.Context) (usecase.Snapshot, error)
}

func (s *stubSessions) SignIn(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	return s.signIn(ctx, email, password)
}

func (s *stubSessions) SignUp(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	return s.signUp(ctx, email, password)
}

func (s *stubSessions) SignOut(ctx context.Context) error {
	return s.signOut(ctx)
}

func (s *stubSessions) Snapshot() usecase.Snapshot {
	return s.snapshot()
}

func (s *stubSessions) WaitForInit(ctx context.Context) (usecase.Snapshot, error) {
	return s.waitForInit(ctx)
}

func newAuthHandlerFixture(t *testing.T, sessions *stubSessions) *AuthHandler {
	t.Helper()
	testLogger, err := logger.New("error")
	require.NoError(t, err)
	return NewAuthHandler(sessions, testLogger)
}

func performRequest(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testUser(t *testing.T) *domain.AuthUser {
	t.Helper()
	return &domain.AuthUser{
		ID:       uuid.New(),
		Email:    "student@example.com",
		IsAdmin:  false,
		IsActive: true,
	}
}

func TestAuthHandler_Login(t *testing.T) {
	user := testUser(t)

	tests := []struct {
		name           string
		body           string
		signIn         func(ctx context.Context, email, password string) (*domain.AuthUser, error)
		expectedStatus int
		checkBody      func(*testing.T, []byte)
	}{
		{
			name: "successful login returns user",
			body: `{"email":"student@example.com","password":"password123"}`,
			signIn: func(ctx context.Context, email, password string) (*domain.AuthUser, error) {
				assert.Equal(t, "student@example.com", email)
				assert.Equal(t, "password123", password)
				return user, nil
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp SessionResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				require.True(t, resp.Authenticated)
				require.NotNil(t, resp.User)
				assert.Equal(t, user.ID.String(), resp.User.ID)
				assert.Equal(t, user.Email, resp.User.Email)
			},
		},
		{
			name: "invalid credentials return 401",
			body: `{"email":"student@example.com","password":"wrongpassword"}`,
			signIn: func(ctx context.Context, email, password string) (*domain.AuthUser, error) {
				return nil, domain.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, body []byte) {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "INVALID_CREDENTIALS", resp.Code)
			},
		},
		{
			name: "unconfirmed account returns 403",
			body: `{"email":"student@example.com","password":"password123"}`,
			signIn: func(ctx context.Context, email, password string) (*domain.AuthUser, error) {
				return nil, domain.ErrAccountUnconfirmed
			},
			expectedStatus: http.StatusForbidden,
			checkBody: func(t *testing.T, body []byte) {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "ACCOUNT_UNCONFIRMED", resp.Code)
			},
		},
		{
			name:           "malformed email fails validation",
			body:           `{"email":"not-an-email","password":"password123"}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body []byte) {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "VALIDATION_FAILED", resp.Code)
			},
		},
		{
			name:           "short password fails validation",
			body:           `{"email":"student@example.com","password":"short"}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body []byte) {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "VALIDATION_FAILED", resp.Code)
			},
		},
		{
			name:           "invalid JSON body returns 400",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body []byte) {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "BAD_REQUEST", resp.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &stubSessions{signIn: tt.signIn}
			handler := newAuthHandlerFixture(t, sessions)

			c, rec := performRequest(t, http.MethodPost, "/v1/auth/login", tt.body)
			require.NoError(t, handler.Login(c))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.checkBody(t, rec.Body.Bytes())
		})
	}
}

func TestAuthHandler_Register(t *testing.T) {
	user := testUser(t)

	tests := []struct {
		name           string
		body           string
		signUp         func(ctx context.Context, email, password string) (*domain.AuthUser, error)
		expectedStatus int
		checkBody      func(*testing.T, []byte)
	}{
		{
			name: "registration with immediate session returns user",
			body: `{"email":"student@example.com","password":"password123"}`,
			signUp: func(ctx context.Context, email, password string) (*domain.AuthUser, error) {
				return user, nil
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var resp SessionResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				require.True(t, resp.Authenticated)
				require.NotNil(t, resp.User)
				assert.False(t, resp.ConfirmationPending)
			},
		},
		{
			name: "registration pending confirmation returns no user",
			body: `{"email":"student@example.com","password":"password123"}`,
			signUp: func(ctx context.Context, email, password string) (*domain.AuthUser, error) {
				return nil, nil
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var resp SessionResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.False(t, resp.Authenticated)
				assert.Nil(t, resp.User)
				assert.True(t, resp.ConfirmationPending)
			},
		},
		{
			name: "duplicate email returns 409",
			body: `{"email":"student@example.com","password":"password123"}`,
			signUp: func(ctx context.Context, email, password string) (*domain.AuthUser, error) {
				return nil, domain.ErrUserAlreadyExists
			},
			expectedStatus: http.StatusConflict,
			checkBody: func(t *testing.T, body []byte) {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "USER_EXISTS", resp.Code)
			},
		},
		{
			name:           "missing password fails validation",
			body:           `{"email":"student@example.com"}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body []byte) {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "VALIDATION_FAILED", resp.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &stubSessions{signUp: tt.signUp}
			handler := newAuthHandlerFixture(t, sessions)

			c, rec := performRequest(t, http.MethodPost, "/v1/auth/register", tt.body)
			require.NoError(t, handler.Register(c))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.checkBody(t, rec.Body.Bytes())
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("successful logout", func(t *testing.T) {
		called := false
		sessions := &stubSessions{
			signOut: func(ctx context.Context) error {
				called = true
				return nil
			},
		}
		handler := newAuthHandlerFixture(t, sessions)

		c, rec := performRequest(t, http.MethodPost, "/v1/auth/logout", "")
		require.NoError(t, handler.Logout(c))

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SuccessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed out", resp.Message)
	})

	t.Run("revocation failure surfaces as 503", func(t *testing.T) {
		sessions := &stubSessions{
			signOut: func(ctx context.Context) error {
				return domain.ErrServiceUnavailable
			},
		}
		handler := newAuthHandlerFixture(t, sessions)

		c, rec := performRequest(t, http.MethodPost, "/v1/auth/logout", "")
		require.NoError(t, handler.Logout(c))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAuthHandler_GetSession(t *testing.T) {
	user := testUser(t)

	tests := []struct {
		name        string
		waitForInit func(ctx context.Context) (usecase.Snapshot, error)
		check       func(*testing.T, SessionStateResponse)
	}{
		{
			name: "authenticated state",
			waitForInit: func(ctx context.Context) (usecase.Snapshot, error) {
				return usecase.Snapshot{User: user, Initialized: true}, nil
			},
			check: func(t *testing.T, resp SessionStateResponse) {
				assert.True(t, resp.Authenticated)
				assert.True(t, resp.Initialized)
				require.NotNil(t, resp.User)
				assert.Equal(t, user.Email, resp.User.Email)
			},
		},
		{
			name: "signed-out state",
			waitForInit: func(ctx context.Context) (usecase.Snapshot, error) {
				return usecase.Snapshot{Initialized: true}, nil
			},
			check: func(t *testing.T, resp SessionStateResponse) {
				assert.False(t, resp.Authenticated)
				assert.True(t, resp.Initialized)
				assert.Nil(t, resp.User)
			},
		},
		{
			name: "wait timeout reports current state",
			waitForInit: func(ctx context.Context) (usecase.Snapshot, error) {
				return usecase.Snapshot{Loading: true}, context.DeadlineExceeded
			},
			check: func(t *testing.T, resp SessionStateResponse) {
				assert.False(t, resp.Authenticated)
				assert.False(t, resp.Initialized)
				assert.True(t, resp.Loading)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &stubSessions{waitForInit: tt.waitForInit}
			handler := newAuthHandlerFixture(t, sessions)

			c, rec := performRequest(t, http.MethodGet, "/v1/auth/session", "")
			require.NoError(t, handler.GetSession(c))

			assert.Equal(t, http.StatusOK, rec.Code)

			var resp SessionStateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			tt.check(t, resp)
		})
	}
}
