// Package testutil provides testing utilities for database-backed tests.
//
// Database Setup:
//
//	db := testutil.SetupDB(t)
//
// The database is a throwaway libSQL file under t.TempDir() with the full
// schema applied, so every test starts from an empty store. Cleanup is
// registered on the test, no teardown call is needed.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/varkeep/varkeep/internal/database"
)

// SetupDB opens a fresh libSQL database in a test temp directory and applies
// all migrations.
func SetupDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := "file:" + filepath.Join(t.TempDir(), "varkeep-test.db")
	db, err := database.Connect(dbPath)
	require.NoError(t, err, "failed to open test database")

	err = database.RunMigrations(context.Background(), db)
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		require.NoError(t, db.Close(), "failed to close test database")
	})

	return db
}

// CreateTestProject inserts a minimal project row and returns its id for use
// in foreign key relationships.
func CreateTestProject(t *testing.T, db *sql.DB, name string) uuid.UUID {
	t.Helper()

	projectID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO projects (id, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		projectID.String(), name, nil, now, now,
	)
	require.NoError(t, err, "failed to create test project: "+name)
	return projectID
}

// CreateTestEnvironment inserts a minimal environment row under the given
// project and returns its id.
func CreateTestEnvironment(t *testing.T, db *sql.DB, projectID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	environmentID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO environments (id, project_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		environmentID.String(), projectID.String(), name, now, now,
	)
	require.NoError(t, err, "failed to create test environment: "+name)
	return environmentID
}
