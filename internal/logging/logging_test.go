package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"pkgadmin/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pkgadmin.log")

	logger, err := logging.New("production", file)
	require.NoError(t, err)
	logger.Info("package saved")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"package saved"`)
}

func TestNewWithoutFile(t *testing.T) {
	logger, err := logging.New("development", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
