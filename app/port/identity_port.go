package port

//go:generate mockgen -source=identity_port.go -destination=../mocks/mock_identity_port.go

import (
	"context"

	"study-auth/app/domain"
)

// IdentityGateway abstracts the identity backend (credential checks, session
// issuance, revocation). ProbeSession returns (nil, nil) when no persisted
// session exists; it is side-effect-free and safe to call at any time.
type IdentityGateway interface {
	ProbeSession(ctx context.Context) (*domain.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string) (*domain.Session, error)
	InvalidateSession(ctx context.Context) error
}

// IdentityDriver is the low-level protocol surface of the identity backend.
// Implementations run the native credential flows and return the issued
// session together with its session token.
type IdentityDriver interface {
	PerformNativeLogin(ctx context.Context, email, password string) (*domain.Session, string, error)
	PerformNativeRegistration(ctx context.Context, email, password string) (*domain.Session, string, error)
	Whoami(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
}

// SessionEvents is the typed broadcast channel carrying session transitions.
// Subscribers receive events in publish order; the returned cancel function
// must be called at teardown.
type SessionEvents interface {
	Publish(event domain.SessionEvent)
	Subscribe() (<-chan domain.SessionEvent, func())
}
