package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "Europe/Sofia", cfg.Timezone)
	assert.Equal(t, "bg", cfg.DefaultLocale)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.SerializableBookings)
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.PhotosEnabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "app.toml")
	content := `
server_port = "9000"
timezone = "UTC"

[smtp]
host = "smtp.from-file"
port = 2525
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("AVAILABILITY_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "smtp.from-file", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, 30*time.Second, cfg.AvailabilityCacheTTL)
	assert.True(t, cfg.MailEnabled())
}

func TestLoad_InvalidDuration(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
}

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
