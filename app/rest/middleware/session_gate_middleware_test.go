package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-auth/app/domain"
	"study-auth/app/usecase"
	"study-auth/app/utils/logger"
)

type stubSessionState struct {
	snapshot    usecase.Snapshot
	waitErr     error
	waitBlocked bool
}

func (s *stubSessionState) Snapshot() usecase.Snapshot {
	return s.snapshot
}

func (s *stubSessionState) WaitForInit(ctx context.Context) (usecase.Snapshot, error) {
	if s.waitBlocked {
		<-ctx.Done()
		return s.snapshot, ctx.Err()
	}
	return s.snapshot, s.waitErr
}

func newGateFixture(t *testing.T, state *stubSessionState, timeout time.Duration) *SessionGate {
	t.Helper()
	testLogger, err := logger.New("error")
	require.NoError(t, err)
	return NewSessionGate(state, timeout, testLogger)
}

func runGate(t *testing.T, mw echo.MiddlewareFunc, pre ...func(echo.Context)) (int, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for _, fn := range pre {
		fn(c)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	if err != nil {
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		return httpErr.Code, err
	}
	return rec.Code, nil
}

func TestSessionGate_RequireSession(t *testing.T) {
	user := &domain.AuthUser{
		ID:       uuid.New(),
		Email:    "student@example.com",
		IsAdmin:  true,
		IsActive: true,
	}

	t.Run("signed-in user passes and context is populated", func(t *testing.T) {
		state := &stubSessionState{snapshot: usecase.Snapshot{User: user, Initialized: true}}
		gate := newGateFixture(t, state, time.Second)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := gate.RequireSession()(func(c echo.Context) error {
			assert.Equal(t, user.ID.String(), c.Get("user_id"))
			assert.Equal(t, user.Email, c.Get("user_email"))
			assert.Equal(t, true, c.Get("is_admin"))
			assert.Equal(t, true, c.Get("is_active"))
			return c.NoContent(http.StatusOK)
		})

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("signed-out state returns 401", func(t *testing.T) {
		state := &stubSessionState{snapshot: usecase.Snapshot{Initialized: true}}
		gate := newGateFixture(t, state, time.Second)

		code, err := runGate(t, gate.RequireSession())
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("initialization that never settles returns 503", func(t *testing.T) {
		state := &stubSessionState{waitBlocked: true}
		gate := newGateFixture(t, state, 20*time.Millisecond)

		start := time.Now()
		code, err := runGate(t, gate.RequireSession())
		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestSessionGate_RequireActive(t *testing.T) {
	gate := newGateFixture(t, &stubSessionState{}, time.Second)

	t.Run("active account passes", func(t *testing.T) {
		code, err := runGate(t, gate.RequireActive(), func(c echo.Context) {
			c.Set("is_active", true)
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("deactivated account returns 403", func(t *testing.T) {
		code, err := runGate(t, gate.RequireActive(), func(c echo.Context) {
			c.Set("is_active", false)
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("missing session context returns 401", func(t *testing.T) {
		code, err := runGate(t, gate.RequireActive())
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestSessionGate_RequireAdmin(t *testing.T) {
	gate := newGateFixture(t, &stubSessionState{}, time.Second)

	t.Run("admin passes", func(t *testing.T) {
		code, err := runGate(t, gate.RequireAdmin(), func(c echo.Context) {
			c.Set("is_admin", true)
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("non-admin returns 403", func(t *testing.T) {
		code, err := runGate(t, gate.RequireAdmin(), func(c echo.Context) {
			c.Set("is_admin", false)
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("missing session context returns 401", func(t *testing.T) {
		code, err := runGate(t, gate.RequireAdmin())
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}
