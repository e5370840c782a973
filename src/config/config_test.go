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
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `log_level: debug
search:
  workers: 3
folders:
  - name: app
    root: app
    snapshot: .mxls/model.msgpack
    source_paths: ["src/**", "test/"]
    watch: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Workers())
	require.Len(t, cfg.Folders, 1)
	folder := cfg.Folders[0]
	assert.Equal(t, "app", folder.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "app"), folder.Root)
	assert.Equal(t, ".mxls/model.msgpack", folder.Snapshot)
	assert.Equal(t, []string{"src/**", "test/"}, folder.SourcePaths)
	assert.True(t, folder.Watch)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"bad yaml", "folders: [", "failed to parse"},
		{"bad level", "log_level: loud\nfolders: []\n", "unknown log level"},
		{"negative workers", "search:\n  workers: -1\n", "search.workers"},
		{"missing root", "folders:\n  - snapshot: a.json\n", "root is required"},
		{"missing snapshot", "folders:\n  - root: /a\n", "snapshot is required"},
		{"duplicate root", "folders:\n  - root: /a\n    snapshot: x.json\n  - root: /a/\n    snapshot: y.json\n", "listed twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := GetDefaultConfig()
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	require.Len(t, cfg.Folders, 1)
	assert.True(t, filepath.IsAbs(cfg.Folders[0].Root))
	assert.Equal(t, filepath.Join(".mxls", "snapshot.json"), filepath.Join(filepath.Base(filepath.Dir(cfg.Folders[0].Snapshot)), filepath.Base(cfg.Folders[0].Snapshot)))
	assert.Zero(t, cfg.Workers())
	assert.NoError(t, validateConfig(cfg))
}

func TestGetDefaultConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".mxls", "config.yaml"), GetDefaultConfigPath())
}
