package domain

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// AuthUser is the authoritative projection of the signed-in principal that
// the application shell consumes. It is either nil (signed out / unknown)
// or fully populated; partial values are never exposed.
type AuthUser struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	IsAdmin  bool      `json:"is_admin"`
	IsActive bool      `json:"is_active"`
}

// NewAuthUser builds an AuthUser from a session subject and its profile.
func NewAuthUser(session *Session, profile *Profile) (*AuthUser, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if profile == nil {
		profile = DefaultProfile(session.UserID)
	}

	return &AuthUser{
		ID:       session.UserID,
		Email:    session.Email,
		IsAdmin:  profile.IsAdmin,
		IsActive: profile.IsActive,
	}, nil
}

// SameSubject reports whether both users refer to the same subject.
// Either side may be nil.
func (u *AuthUser) SameSubject(other *AuthUser) bool {
	if u == nil || other == nil {
		return u == nil && other == nil
	}
	return u.ID == other.ID
}

// Profile holds the secondary per-subject authorization attributes stored
// separately from the session.
type Profile struct {
	UserID    uuid.UUID `json:"user_id"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultProfile returns the profile used when no record exists for the
// subject: not an admin, but active. Absence of a profile is never an error.
func DefaultProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID:   userID,
		IsAdmin:  false,
		IsActive: true,
	}
}

// NewProfile creates a profile record with validation.
func NewProfile(userID uuid.UUID, isAdmin, isActive bool) (*Profile, error) {
	if userID == (uuid.UUID{}) {
		return nil, fmt.Errorf("user ID is required")
	}

	return &Profile{
		UserID:    userID,
		IsAdmin:   isAdmin,
		IsActive:  isActive,
		UpdatedAt: time.Now(),
	}, nil
}

// ValidateEmail checks that an address is a parseable email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}
