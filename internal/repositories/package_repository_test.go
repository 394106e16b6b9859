package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"pkgadmin/internal/models"
	"pkgadmin/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGORMRepo(t *testing.T) repositories.PackageRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	repo := repositories.NewGORMPackageRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

// both runs fn against the GORM and in-memory implementations.
func both(t *testing.T, fn func(t *testing.T, repo repositories.PackageRepository)) {
	t.Run("gorm", func(t *testing.T) { fn(t, newGORMRepo(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, repositories.NewMockPackageRepository()) })
}

func TestPackageRepository_CreateAssignsID(t *testing.T) {
	both(t, func(t *testing.T, repo repositories.PackageRepository) {
		bogus := int64(42)
		pkg := models.Package{ID: &bogus, Title: "Basic", Features: []string{"b", "a", "b"}}
		require.NoError(t, repo.Create(&pkg))
		require.NotNil(t, pkg.ID)
		assert.Equal(t, int64(1), *pkg.ID, "client supplied ids are ignored")

		got, err := repo.GetByID(*pkg.ID)
		require.NoError(t, err)
		assert.Equal(t, "Basic", got.Title)
		assert.Equal(t, []string{"b", "a", "b"}, got.Features)
	})
}

func TestPackageRepository_NilFeaturesStoredEmpty(t *testing.T) {
	both(t, func(t *testing.T, repo repositories.PackageRepository) {
		pkg := models.Package{Title: "No features"}
		require.NoError(t, repo.Create(&pkg))

		all, err := repo.GetAll()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.NotNil(t, all[0].Features)
		assert.Empty(t, all[0].Features)
	})
}

func TestPackageRepository_GetAllOrder(t *testing.T) {
	both(t, func(t *testing.T, repo repositories.PackageRepository) {
		five, one := 5, 1
		for _, p := range []models.Package{
			{Title: "c"},
			{Title: "b", DisplayOrder: &five},
			{Title: "a", DisplayOrder: &one},
			{Title: "d"},
		} {
			p := p
			require.NoError(t, repo.Create(&p))
		}

		all, err := repo.GetAll()
		require.NoError(t, err)
		var titles []string
		for _, p := range all {
			titles = append(titles, p.Title)
		}
		assert.Equal(t, []string{"a", "b", "c", "d"}, titles)
	})
}

func TestPackageRepository_UpdateOverwritesNullables(t *testing.T) {
	both(t, func(t *testing.T, repo repositories.PackageRepository) {
		price := 10.0
		category := "Hosting"
		pkg := models.Package{Title: "Basic", Price: &price, Category: &category, IsActive: true}
		require.NoError(t, repo.Create(&pkg))
		id := *pkg.ID

		update := models.Package{Title: "Basic v2", Features: []string{"SSL"}}
		require.NoError(t, repo.Update(id, &update))
		require.NotNil(t, update.ID)
		assert.Equal(t, id, *update.ID)

		got, err := repo.GetByID(id)
		require.NoError(t, err)
		assert.Equal(t, "Basic v2", got.Title)
		assert.Nil(t, got.Price)
		assert.Nil(t, got.Category)
		assert.False(t, got.IsActive)
		assert.Equal(t, []string{"SSL"}, got.Features)
	})
}

func TestPackageRepository_NotFound(t *testing.T) {
	both(t, func(t *testing.T, repo repositories.PackageRepository) {
		_, err := repo.GetByID(7)
		assert.ErrorIs(t, err, repositories.ErrPackageNotFound)

		err = repo.Update(7, &models.Package{Title: "x"})
		assert.ErrorIs(t, err, repositories.ErrPackageNotFound)

		err = repo.Delete(7)
		assert.ErrorIs(t, err, repositories.ErrPackageNotFound)

		all, err := repo.GetAll()
		require.NoError(t, err)
		assert.Empty(t, all, "a failed update must not insert")
	})
}

func TestPackageRepository_Delete(t *testing.T) {
	both(t, func(t *testing.T, repo repositories.PackageRepository) {
		pkg := models.Package{Title: "Temp"}
		require.NoError(t, repo.Create(&pkg))
		require.NoError(t, repo.Delete(*pkg.ID))

		_, err := repo.GetByID(*pkg.ID)
		assert.ErrorIs(t, err, repositories.ErrPackageNotFound)
	})
}

func TestMockPackageRepository_ReturnsCopies(t *testing.T) {
	repo := repositories.NewMockPackageRepository()
	pkg := models.Package{Title: "Basic", Features: []string{"SSL"}}
	require.NoError(t, repo.Create(&pkg))

	pkg.Features[0] = "changed"
	got, err := repo.GetByID(*pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"SSL"}, got.Features)
}
