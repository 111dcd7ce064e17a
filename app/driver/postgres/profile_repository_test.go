package postgres

import (
	"context"
	"testing"
	"time"

	"study-auth/app/domain"
	"study-auth/app/utils/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test profile repository with mocked database
func createTestProfileRepository(t *testing.T) (*ProfileRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)

	testLogger, err := logger.New("debug")
	require.NoError(t, err)

	repo := NewProfileRepository(mockDB, testLogger).(*ProfileRepository)

	return repo, mockDB
}

func TestProfileRepository_GetByUserID(t *testing.T) {
	userID := uuid.New()
	updatedAt := time.Now()

	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface)
		want    *domain.Profile
		wantErr error
	}{
		{
			name: "profile found",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectQuery("SELECT user_id, is_admin, is_active, updated_at").
					WithArgs(userID).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "is_admin", "is_active", "updated_at"}).
						AddRow(userID, true, true, updatedAt))
			},
			want: &domain.Profile{UserID: userID, IsAdmin: true, IsActive: true, UpdatedAt: updatedAt},
		},
		{
			name: "profile missing maps to not found",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectQuery("SELECT user_id, is_admin, is_active, updated_at").
					WithArgs(userID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrProfileNotFound,
		},
		{
			name: "database error surfaces",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectQuery("SELECT user_id, is_admin, is_active, updated_at").
					WithArgs(userID).
					WillReturnError(pgx.ErrTxClosed)
			},
			wantErr: pgx.ErrTxClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestProfileRepository(t)
			defer mockDB.Close()

			tt.setupDB(mockDB)

			profile, err := repo.GetByUserID(context.Background(), userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, profile)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want.UserID, profile.UserID)
				assert.Equal(t, tt.want.IsAdmin, profile.IsAdmin)
				assert.Equal(t, tt.want.IsActive, profile.IsActive)
			}

			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_Upsert(t *testing.T) {
	repo, mockDB := createTestProfileRepository(t)
	defer mockDB.Close()

	profile := &domain.Profile{
		UserID:    uuid.New(),
		IsAdmin:   false,
		IsActive:  true,
		UpdatedAt: time.Now(),
	}

	mockDB.ExpectExec("INSERT INTO user_profiles").
		WithArgs(profile.UserID, profile.IsAdmin, profile.IsActive, profile.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Upsert(context.Background(), profile)

	assert.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestProfileRepository_List(t *testing.T) {
	repo, mockDB := createTestProfileRepository(t)
	defer mockDB.Close()

	u1, u2 := uuid.New(), uuid.New()
	now := time.Now()

	mockDB.ExpectQuery("SELECT user_id, is_admin, is_active, updated_at").
		WithArgs(50, 0).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "is_admin", "is_active", "updated_at"}).
			AddRow(u1, true, true, now).
			AddRow(u2, false, false, now))

	profiles, err := repo.List(context.Background(), 50, 0)

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, u1, profiles[0].UserID)
	assert.True(t, profiles[0].IsAdmin)
	assert.Equal(t, u2, profiles[1].UserID)
	assert.False(t, profiles[1].IsActive)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestProfileRepository_SetAdmin(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "flag updated",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectExec("UPDATE user_profiles").
					WithArgs(true, userID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "no row maps to not found",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectExec("UPDATE user_profiles").
					WithArgs(true, userID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestProfileRepository(t)
			defer mockDB.Close()

			tt.setupDB(mockDB)

			err := repo.SetAdmin(context.Background(), userID, true)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_SetActive(t *testing.T) {
	repo, mockDB := createTestProfileRepository(t)
	defer mockDB.Close()

	userID := uuid.New()

	mockDB.ExpectExec("UPDATE user_profiles").
		WithArgs(false, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetActive(context.Background(), userID, false)

	assert.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
