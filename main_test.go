package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pkgadmin/internal/config"
	"pkgadmin/internal/models"
	"pkgadmin/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	app := newApp(repositories.NewMockPackageRepository(), nil, false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.Contains(t, string(body), `"rabbitmq":false`)
}

func TestOpenRepositoryMemorySeeds(t *testing.T) {
	repo, closeDB, err := openRepository(config.Config{DBDriver: config.DriverMemory})
	require.NoError(t, err)
	defer closeDB()

	app := newApp(repo, nil, false)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/packages-server", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var pkgs []models.Package
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pkgs))
	require.Len(t, pkgs, 3)
	assert.Equal(t, 1, *pkgs[0].DisplayOrder)
	assert.Nil(t, pkgs[2].DisplayOrder, "records without display order come last")
}

func TestOpenRepositorySQLite(t *testing.T) {
	repo, closeDB, err := openRepository(config.Config{
		DBDriver:    config.DriverSQLite,
		DatabaseDSN: "file:opensqlite?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	defer closeDB()

	pkgs, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}
