package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CATTRACK_CONFIG", "")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, "/dashboard", cfg.UI.StartRoute)
	require.Equal(t, 100, cfg.UI.PageSize)
	require.Equal(t, "$", cfg.UI.CurrencySymbol)
	require.Equal(t, 90, cfg.Import.AutoCategoriseScore)
	require.Equal(t, "cattrack.db", filepath.Base(cfg.Database.Path))
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[database]
path = "/tmp/cat.db"

[ui]
date_format = "02/01/2006"
start_route = "/transactions"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("CATTRACK_UI_PAGE_SIZE", "25")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/cat.db", cfg.Database.Path)
	require.Equal(t, "02/01/2006", cfg.UI.DateFormat)
	require.Equal(t, "/transactions", cfg.UI.StartRoute)
	require.Equal(t, 25, cfg.UI.PageSize)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui\nstart_route="), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileFollowsEnvPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "elsewhere.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database]\npath = \"/tmp/env.db\"\n"), 0o600))
	t.Setenv("CATTRACK_CONFIG", path)

	cfg, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, "/tmp/env.db", cfg.Database.Path)
	require.Equal(t, path, Path())

	// an explicit file wins over the env path
	other := filepath.Join(t.TempDir(), "other.toml")
	require.NoError(t, os.WriteFile(other, []byte("[database]\npath = \"/tmp/other.db\"\n"), 0o600))
	cfg, err = LoadFile(other)
	require.NoError(t, err)
	require.Equal(t, "/tmp/other.db", cfg.Database.Path)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("CATTRACK_CONFIG", path)

	cfg, err := LoadFile("")
	require.NoError(t, err)
	cfg.UI.CurrencySymbol = "A$"
	require.NoError(t, Save("", cfg))
	require.FileExists(t, path)

	again, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, "A$", again.UI.CurrencySymbol)

	explicit := filepath.Join(t.TempDir(), "explicit.toml")
	require.NoError(t, Save(explicit, again))
	fromFile, err := LoadFile(explicit)
	require.NoError(t, err)
	require.Equal(t, "A$", fromFile.UI.CurrencySymbol)
}
