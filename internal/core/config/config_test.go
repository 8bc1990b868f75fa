package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: s3cret\n")

	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", c.DB.Driver)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 15, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, 24, c.JWT.RefreshTokenTTLHour)
	assert.Equal(t, 8, c.Password.MinLength)
	assert.InDelta(t, 0.7, c.Password.MaxSimilarity, 1e-9)
	assert.Equal(t, int64(1<<20), c.App.HTTP.MaxBodyBytes)
	assert.Equal(t, 20, c.App.HTTP.AuthBurst)
}

func TestReadEnvOverride(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: s3cret\ndb:\n  driver: postgres\n")
	t.Setenv("APP_DB_DRIVER", "mysql")

	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "mysql", c.DB.Driver)
}

func TestReadRequiresSecret(t *testing.T) {
	path := writeConfig(t, "app:\n  name: x\n")
	_, err := Read(path)
	assert.Error(t, err)
}

func TestReadLocalConfig(t *testing.T) {
	c, err := Read("../../../configs/config.local.yaml")
	require.NoError(t, err)
	assert.Equal(t, "resume-api", c.App.Name)
	assert.Equal(t, 8081, c.App.Admin.Port)
}
