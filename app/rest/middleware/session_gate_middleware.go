package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"study-auth/app/usecase"
)

// SessionState exposes the reconciled session snapshot to the gate.
type SessionState interface {
	Snapshot() usecase.Snapshot
	WaitForInit(ctx context.Context) (usecase.Snapshot, error)
}

// SessionGate blocks protected routes until the startup reconciliation has
// settled, then enforces that a signed-in user is present.
type SessionGate struct {
	sessions SessionState
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSessionGate creates a session gate middleware. The timeout bounds how
// long a request may wait for initialization before it is rejected.
func NewSessionGate(sessions SessionState, timeout time.Duration, logger *slog.Logger) *SessionGate {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SessionGate{
		sessions: sessions,
		timeout:  timeout,
		logger:   logger.With("component", "session_gate"),
	}
}

// RequireSession waits for the session state to initialize and rejects the
// request when no user is signed in.
func (g *SessionGate) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), g.timeout)
			defer cancel()

			snapshot, err := g.sessions.WaitForInit(ctx)
			if err != nil {
				g.logger.Warn("session state did not settle in time", "error", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session state unavailable")
			}

			if snapshot.User == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set("user_id", snapshot.User.ID.String())
			c.Set("user_email", snapshot.User.Email)
			c.Set("is_admin", snapshot.User.IsAdmin)
			c.Set("is_active", snapshot.User.IsActive)

			return next(c)
		}
	}
}

// RequireActive rejects requests from deactivated accounts. Must run after
// RequireSession.
func (g *SessionGate) RequireActive() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isActive, ok := c.Get("is_active").(bool)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !isActive {
				return echo.NewHTTPError(http.StatusForbidden, "account deactivated")
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects requests from non-admin users. Must run after
// RequireSession.
func (g *SessionGate) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, ok := c.Get("is_admin").(bool)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !isAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}
