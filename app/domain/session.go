package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the identity backend's proof of authentication. The service
// only observes sessions; it never mutates them.
type Session struct {
	ID              uuid.UUID `json:"id"`
	BackendID       string    `json:"backend_id"`
	UserID          uuid.UUID `json:"user_id"`
	Email           string    `json:"email"`
	Active          bool      `json:"active"`
	ExpiresAt       time.Time `json:"expires_at"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}

// NewSession creates a session projection for a backend-issued session.
func NewSession(userID uuid.UUID, backendID, email string, expiresAt time.Time) (*Session, error) {
	if userID == (uuid.UUID{}) {
		return nil, fmt.Errorf("user ID is required")
	}
	if backendID == "" {
		return nil, fmt.Errorf("backend session ID is required")
	}

	return &Session{
		ID:              uuid.New(),
		BackendID:       backendID,
		UserID:          userID,
		Email:           email,
		Active:          true,
		ExpiresAt:       expiresAt,
		AuthenticatedAt: time.Now(),
	}, nil
}

// IsValid reports whether the session is active and not expired.
func (s *Session) IsValid() bool {
	if s == nil || !s.Active {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(s.ExpiresAt)
}

// EventType identifies a session transition on the notification stream.
type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
)

// SessionEvent is a single notification on the session change stream.
// Seq is assigned by the hub and increases monotonically; Session is nil
// for signed-out events.
type SessionEvent struct {
	Type    EventType
	Session *Session
	Seq     uint64
	At      time.Time
}

// Subject returns the subject of the event, or uuid.Nil for a signed-out
// or malformed event.
func (e SessionEvent) Subject() uuid.UUID {
	if e.Session == nil {
		return uuid.Nil
	}
	return e.Session.UserID
}
