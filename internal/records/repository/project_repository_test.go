package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/varkeep/varkeep/internal/errors"
	recordsDomain "github.com/varkeep/varkeep/internal/records/domain"
	"github.com/varkeep/varkeep/internal/testutil"
)

func TestProjectRepository(t *testing.T) {
	db := testutil.SetupDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	t.Run("create and get by name", func(t *testing.T) {
		project := recordsDomain.NewProject("backend", "api services")
		require.NoError(t, repo.Create(ctx, project))

		got, err := repo.GetByName(ctx, "backend")
		require.NoError(t, err)
		assert.Equal(t, project.ID, got.ID)
		assert.Equal(t, "backend", got.Name)
		assert.Equal(t, "api services", got.Description)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		err := repo.Create(ctx, recordsDomain.NewProject("backend", ""))
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("get missing project fails with not found", func(t *testing.T) {
		_, err := repo.GetByName(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("list orders by name", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, recordsDomain.NewProject("aardvark", "")))

		projects, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "aardvark", projects[0].Name)
		assert.Equal(t, "backend", projects[1].Name)
	})

	t.Run("update changes description", func(t *testing.T) {
		project, err := repo.GetByName(ctx, "backend")
		require.NoError(t, err)

		project.Description = "updated"
		require.NoError(t, repo.Update(ctx, project))

		got, err := repo.GetByName(ctx, "backend")
		require.NoError(t, err)
		assert.Equal(t, "updated", got.Description)
	})

	t.Run("delete cascades to environments", func(t *testing.T) {
		project, err := repo.GetByName(ctx, "backend")
		require.NoError(t, err)
		testutil.CreateTestEnvironment(t, db, project.ID, "production")

		require.NoError(t, repo.Delete(ctx, project.ID))

		_, err = repo.GetByName(ctx, "backend")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM environments`).Scan(&count))
		assert.Equal(t, 0, count)
	})

	t.Run("delete missing project fails with not found", func(t *testing.T) {
		project := recordsDomain.NewProject("ghost", "")
		assert.ErrorIs(t, repo.Delete(ctx, project.ID), apperrors.ErrNotFound)
	})
}
