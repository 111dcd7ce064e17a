package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"study-auth/app/domain"
	"study-auth/app/port"
)

// IdentityGateway implements port.IdentityGateway on top of the identity
// backend driver. It owns the session token lifecycle and publishes session
// transitions on the event hub.
type IdentityGateway struct {
	driver port.IdentityDriver
	tokens *TokenStore
	events port.SessionEvents
	logger *slog.Logger
}

// NewIdentityGateway creates a new IdentityGateway instance
func NewIdentityGateway(driver port.IdentityDriver, tokens *TokenStore, events port.SessionEvents, logger *slog.Logger) *IdentityGateway {
	return &IdentityGateway{
		driver: driver,
		tokens: tokens,
		events: events,
		logger: logger.With("component", "identity_gateway"),
	}
}

// ProbeSession checks whether the persisted token still identifies an
// active session. Returns (nil, nil) when no token is stored or the token
// has been revoked or expired upstream; only transport-level failures
// surface as errors.
func (g *IdentityGateway) ProbeSession(ctx context.Context) (*domain.Session, error) {
	token := g.tokens.Load()
	if token == "" {
		return nil, nil
	}

	session, err := g.driver.Whoami(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
			g.logger.Info("persisted session no longer valid, clearing token")
			g.tokens.Clear()
			return nil, nil
		}
		return nil, fmt.Errorf("session probe failed: %w", err)
	}

	if !session.IsValid() {
		g.tokens.Clear()
		return nil, nil
	}

	return session, nil
}

// SignInWithPassword authenticates with email and password. On success the
// issued token is persisted and a signed-in event is published.
func (g *IdentityGateway) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	session, token, err := g.driver.PerformNativeLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}

	g.tokens.Save(token)
	g.events.Publish(domain.SessionEvent{
		Type:    domain.EventSignedIn,
		Session: session,
	})

	g.logger.Info("sign-in completed", "subject", session.UserID)
	return session, nil
}

// SignUp registers a new account. When the backend defers the session until
// the email is confirmed, SignUp returns (nil, nil) and publishes nothing.
func (g *IdentityGateway) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	session, token, err := g.driver.PerformNativeRegistration(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if session == nil {
		g.logger.Info("sign-up accepted, awaiting confirmation", "email", email)
		return nil, nil
	}

	g.tokens.Save(token)
	g.events.Publish(domain.SessionEvent{
		Type:    domain.EventSignedIn,
		Session: session,
	})

	g.logger.Info("sign-up completed", "subject", session.UserID)
	return session, nil
}

// InvalidateSession revokes the current session upstream and drops the
// persisted token. The token is cleared before revocation so local state is
// signed out even when the backend is unreachable.
func (g *IdentityGateway) InvalidateSession(ctx context.Context) error {
	token := g.tokens.Load()
	g.tokens.Clear()

	g.events.Publish(domain.SessionEvent{Type: domain.EventSignedOut})

	if token == "" {
		return nil
	}

	if err := g.driver.Logout(ctx, token); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("session revocation failed: %w", err)
	}

	return nil
}
