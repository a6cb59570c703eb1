package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Portal   string `json:"portal"`
	Username string `json:"username"`
	Timeout  int    `json:"timeout"`
}

func write(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0o644)
	require.NoError(t, err)
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "collector.json5")

	write(t, name, `{
		// portals are fixed per deployment
		portal: "https://example.edu/my/",
		timeout: 20,
	}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://example.edu/my/", cfg.Portal)
	require.Equal(t, 20, cfg.Timeout)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "collector.json5")

	write(t, name, `{portal: "https://example.edu/", timeout: 20}`)
	write(t, filepath.Join(dir, "collector.local.json5"), `{timeout: 5}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://example.edu/", cfg.Portal)
	require.Equal(t, 5, cfg.Timeout)
}

func TestReadConfigExpandsEnv(t *testing.T) {
	t.Setenv("COLLECTOR_TEST_USERNAME", "alice@example.edu")

	dir := t.TempDir()
	name := filepath.Join(dir, "collector.json5")
	write(t, name, `{username: "${COLLECTOR_TEST_USERNAME}"}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "alice@example.edu", cfg.Username)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "missing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
