package integration

import (
	"context"
	"testing"
	"time"

	"study-auth/app/domain"
	"study-auth/app/driver/postgres"
	"study-auth/app/utils/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseIntegration(t *testing.T) {
	// Skip if not in integration test mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Wait for database to be ready
	require.NoError(t, WaitForDatabase(ctx), "Database should be ready")

	// Get database connection
	pool, err := TestDatabaseConnection()
	require.NoError(t, err, "Should connect to test database")
	defer pool.Close()

	// Test basic connection
	require.NoError(t, pool.Ping(ctx), "Should ping database successfully")

	// Test basic query
	var result int
	err = pool.QueryRow(ctx, "SELECT 1").Scan(&result)
	require.NoError(t, err, "Should execute simple query")
	assert.Equal(t, 1, result, "Query result should be 1")
}

func TestProfileRepositoryIntegration(t *testing.T) {
	// Skip if not in integration test mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Wait for database to be ready
	require.NoError(t, WaitForDatabase(ctx), "Database should be ready")

	// Get database connection
	pool, err := TestDatabaseConnection()
	require.NoError(t, err, "Should connect to test database")
	defer pool.Close()

	// Create logger
	testLogger, err := logger.New("debug")
	require.NoError(t, err, "Should create logger")

	// Create profile repository
	profileRepo := postgres.NewProfileRepository(pool, testLogger)

	t.Run("Profile CRUD operations", func(t *testing.T) {
		userID := uuid.New()
		defer pool.Exec(ctx, "DELETE FROM user_profiles WHERE user_id = $1", userID)

		profile, err := domain.NewProfile(userID, false, true)
		require.NoError(t, err, "Should create profile domain object")

		// Store profile
		err = profileRepo.Upsert(ctx, profile)
		require.NoError(t, err, "Should store profile in database")

		// Retrieve profile
		retrieved, err := profileRepo.GetByUserID(ctx, userID)
		require.NoError(t, err, "Should retrieve profile from database")
		assert.Equal(t, userID, retrieved.UserID, "User ID should match")
		assert.False(t, retrieved.IsAdmin, "Should not be admin")
		assert.True(t, retrieved.IsActive, "Should be active")

		// Promote to admin
		err = profileRepo.SetAdmin(ctx, userID, true)
		require.NoError(t, err, "Should set admin flag")

		updated, err := profileRepo.GetByUserID(ctx, userID)
		require.NoError(t, err, "Should retrieve updated profile")
		assert.True(t, updated.IsAdmin, "Should be admin after update")
		assert.False(t, updated.UpdatedAt.Before(retrieved.UpdatedAt), "UpdatedAt should not go backwards")

		// Deactivate
		err = profileRepo.SetActive(ctx, userID, false)
		require.NoError(t, err, "Should set active flag")

		deactivated, err := profileRepo.GetByUserID(ctx, userID)
		require.NoError(t, err, "Should retrieve deactivated profile")
		assert.False(t, deactivated.IsActive, "Should be inactive after update")
	})

	t.Run("Missing profile returns not found", func(t *testing.T) {
		_, err := profileRepo.GetByUserID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrProfileNotFound, "Should report missing profile")
	})

	t.Run("Upsert overwrites existing flags", func(t *testing.T) {
		userID := uuid.New()
		defer pool.Exec(ctx, "DELETE FROM user_profiles WHERE user_id = $1", userID)

		first, err := domain.NewProfile(userID, false, true)
		require.NoError(t, err)
		require.NoError(t, profileRepo.Upsert(ctx, first))

		second, err := domain.NewProfile(userID, true, false)
		require.NoError(t, err)
		second.UpdatedAt = time.Now()
		require.NoError(t, profileRepo.Upsert(ctx, second))

		retrieved, err := profileRepo.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, retrieved.IsAdmin, "Second upsert should win")
		assert.False(t, retrieved.IsActive, "Second upsert should win")
	})
}

func TestDatabaseSchemaIntegration(t *testing.T) {
	// Skip if not in integration test mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Wait for database to be ready
	require.NoError(t, WaitForDatabase(ctx), "Database should be ready")

	// Get database connection
	pool, err := TestDatabaseConnection()
	require.NoError(t, err, "Should connect to test database")
	defer pool.Close()

	t.Run("Table user_profiles exists", func(t *testing.T) {
		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_name = $1)",
			"user_profiles").Scan(&exists)
		require.NoError(t, err, "Should query table existence")
		assert.True(t, exists, "Table user_profiles should exist")
	})

	t.Run("Index idx_user_profiles_is_active exists", func(t *testing.T) {
		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM pg_indexes WHERE indexname = $1)",
			"idx_user_profiles_is_active").Scan(&exists)
		require.NoError(t, err, "Should query index existence")
		assert.True(t, exists, "Index idx_user_profiles_is_active should exist")
	})
}

func TestTransactionIntegration(t *testing.T) {
	// Skip if not in integration test mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Wait for database to be ready
	require.NoError(t, WaitForDatabase(ctx), "Database should be ready")

	// Get database connection
	pool, err := TestDatabaseConnection()
	require.NoError(t, err, "Should connect to test database")
	defer pool.Close()

	// Test transaction rollback
	t.Run("Transaction rollback", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err, "Should begin transaction")

		userID := uuid.New()
		_, err = tx.Exec(ctx,
			"INSERT INTO user_profiles (user_id, is_admin, is_active) VALUES ($1, $2, $3)",
			userID, false, true)
		require.NoError(t, err, "Should insert profile in transaction")

		// Rollback transaction
		err = tx.Rollback(ctx)
		require.NoError(t, err, "Should rollback transaction")

		// Verify profile was not inserted
		var count int
		err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM user_profiles WHERE user_id = $1", userID).Scan(&count)
		require.NoError(t, err, "Should query profile count")
		assert.Equal(t, 0, count, "Profile should not exist after rollback")
	})

	// Test transaction commit
	t.Run("Transaction commit", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err, "Should begin transaction")

		userID := uuid.New()
		_, err = tx.Exec(ctx,
			"INSERT INTO user_profiles (user_id, is_admin, is_active) VALUES ($1, $2, $3)",
			userID, false, true)
		require.NoError(t, err, "Should insert profile in transaction")

		// Commit transaction
		err = tx.Commit(ctx)
		require.NoError(t, err, "Should commit transaction")

		// Verify profile was inserted
		var count int
		err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM user_profiles WHERE user_id = $1", userID).Scan(&count)
		require.NoError(t, err, "Should query profile count")
		assert.Equal(t, 1, count, "Profile should exist after commit")

		// Cleanup
		_, err = pool.Exec(ctx, "DELETE FROM user_profiles WHERE user_id = $1", userID)
		require.NoError(t, err, "Should clean up test profile")
	})
}
