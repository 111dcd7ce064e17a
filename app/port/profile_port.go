package port

//go:generate mockgen -source=profile_port.go -destination=../mocks/mock_profile_port.go

import (
	"context"

	"study-auth/app/domain"

	"github.com/google/uuid"
)

// ProfileRepository defines per-subject profile data access. GetByUserID
// returns domain.ErrProfileNotFound when no record exists; callers treat
// that as the default profile, never as a failure.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
	List(ctx context.Context, limit, offset int) ([]*domain.Profile, error)
	SetAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error
	SetActive(ctx context.Context, userID uuid.UUID, isActive bool) error
}
