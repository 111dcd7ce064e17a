package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"study-auth/app/domain"
	"study-auth/app/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProfileRepository implements port.ProfileRepository for PostgreSQL
type ProfileRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db DatabaseIface, logger *slog.Logger) port.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger.With("component", "profile_repository"),
	}
}

// GetByUserID fetches the profile row for a user. Returns
// domain.ErrProfileNotFound when no row exists.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, is_admin, is_active, updated_at
		FROM user_profiles
		WHERE user_id = $1`

	profile := &domain.Profile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.IsAdmin,
		&profile.IsActive,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		r.logger.Error("failed to get profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Upsert inserts the profile row or updates it in place.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO user_profiles (user_id, is_admin, is_active, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			is_admin = EXCLUDED.is_admin,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.IsAdmin,
		profile.IsActive,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to upsert profile", "user_id", profile.UserID, "error", err)
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	r.logger.Info("profile upserted", "user_id", profile.UserID)
	return nil
}

// List returns profiles ordered by user ID, paginated.
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]*domain.Profile, error) {
	query := `
		SELECT user_id, is_admin, is_active, updated_at
		FROM user_profiles
		ORDER BY user_id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("failed to list profiles", "error", err)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		profile := &domain.Profile{}
		if err := rows.Scan(&profile.UserID, &profile.IsAdmin, &profile.IsActive, &profile.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profile rows: %w", err)
	}

	return profiles, nil
}

// SetAdmin updates the admin flag for a user.
func (r *ProfileRepository) SetAdmin(ctx context.Context, userID uuid.UUID, isAdmin bool) error {
	return r.setFlag(ctx, "is_admin", userID, isAdmin)
}

// SetActive updates the active flag for a user.
func (r *ProfileRepository) SetActive(ctx context.Context, userID uuid.UUID, isActive bool) error {
	return r.setFlag(ctx, "is_active", userID, isActive)
}

func (r *ProfileRepository) setFlag(ctx context.Context, column string, userID uuid.UUID, value bool) error {
	// column is one of the two fixed flag names, never caller input
	query := fmt.Sprintf(`
		UPDATE user_profiles
		SET %s = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2`, column)

	result, err := r.db.Exec(ctx, query, value, userID)
	if err != nil {
		r.logger.Error("failed to update profile flag", "column", column, "user_id", userID, "error", err)
		return fmt.Errorf("failed to update %s: %w", column, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}

	r.logger.Info("profile flag updated", "column", column, "user_id", userID, "value", value)
	return nil
}
